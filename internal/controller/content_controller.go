package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"

	"furnishcare_backend/internal/model"
	"furnishcare_backend/pkg/database"
)

type PostInput struct {
	Title      string `json:"title" validate:"required"`
	Excerpt    string `json:"excerpt"`
	Body       string `json:"body" validate:"required"`
	CoverImage string `json:"cover_image"`
	Published  bool   `json:"published"`
}

// ListPosts returns published blog posts for the marketing site.
func ListPosts(c *fiber.Ctx) error {
	var posts []model.Post
	if err := database.DB.Where("published = ?", true).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch posts",
		})
	}

	return c.JSON(posts)
}

func GetPostBySlug(c *fiber.Ctx) error {
	var post model.Post
	if err := database.DB.Where("slug = ? AND published = ?", c.Params("slug"), true).
		First(&post).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}

	return c.JSON(post)
}

func AdminCreatePost(c *fiber.Ctx) error {
	input := new(PostInput)
	if err := c.BodyParser(input); err != nil || input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	post := model.Post{
		Title:      input.Title,
		Slug:       slug.Make(input.Title),
		Excerpt:    input.Excerpt,
		Body:       input.Body,
		CoverImage: input.CoverImage,
		Published:  input.Published,
	}

	if err := database.DB.Create(&post).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create post",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

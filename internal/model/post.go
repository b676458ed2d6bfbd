package model

import "gorm.io/gorm"

// Post is a marketing-site blog article.
type Post struct {
	gorm.Model
	Title      string `json:"title" gorm:"not null"`
	Slug       string `json:"slug" gorm:"uniqueIndex;not null"`
	Excerpt    string `json:"excerpt"`
	Body       string `json:"body" gorm:"type:text"`
	CoverImage string `json:"cover_image"`
	Published  bool   `json:"published" gorm:"default:false"`
}

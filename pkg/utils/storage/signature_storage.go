package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

func getS3Client() (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("R2_ACCESS_KEY"),
			os.Getenv("R2_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", os.Getenv("R2_ACCOUNT_ID")))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return client, nil
}

type UploadSignatureConfig struct {
	Data        *bytes.Buffer
	ContentType string
	UserEmail   string
	Filename    string
}

type UploadResult struct {
	URL      string
	ObjectID string
}

// UploadSignature stores a processed service-agreement signature under a
// per-customer prefix and returns the public CDN URL.
func UploadSignature(cfg UploadSignatureConfig) (UploadResult, error) {
	safeUser := slug.Make(cfg.UserEmail)

	ext := filepath.Ext(cfg.Filename)
	if ext == "" {
		ext = ".png"
	}
	uniqueID := uuid.New().String()
	objectKey := filepath.Join("customers", safeUser, "signatures", uniqueID+ext)

	client, err := getS3Client()
	if err != nil {
		return UploadResult{}, err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(cfg.Data.Bytes()),
		ContentType: aws.String(cfg.ContentType),
	}

	_, err = client.PutObject(context.TODO(), input)
	if err != nil {
		return UploadResult{}, fmt.Errorf("could not upload signature to R2: %v", err)
	}

	return UploadResult{
		URL:      fmt.Sprintf("https://cdn.furnishcare.com/%s", objectKey),
		ObjectID: uniqueID,
	}, nil
}

func DeleteSignature(fullURL string) error {
	objectKey := strings.TrimPrefix(fullURL, "https://cdn.furnishcare.com/")

	client, err := getS3Client()
	if err != nil {
		return err
	}

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:    aws.String(objectKey),
	}

	_, err = client.DeleteObject(context.TODO(), input)
	if err != nil {
		return fmt.Errorf("could not delete signature from R2: %v", err)
	}

	return nil
}

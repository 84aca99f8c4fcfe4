package infrastructure

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"arcade/domain/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// AllowedUploadExtensions lists the file types accepted for upload
var AllowedUploadExtensions = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"mp4":  "video/mp4",
	"txt":  "text/plain",
}

// S3Options configures an S3 compatible bucket
type S3Options struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// S3FileStorage stores uploads in an S3 compatible bucket
type S3FileStorage struct {
	client *s3.Client
	bucket string
}

// NewS3FileStorage builds the S3 client from static credentials
func NewS3FileStorage(ctx context.Context, opts S3Options) (*S3FileStorage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey, opts.SecretKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3FileStorage{client: client, bucket: opts.Bucket}, nil
}

// Store uploads body and returns its object key
func (s *S3FileStorage) Store(ctx context.Context, filename string, contentType string, body io.Reader) (string, error) {
	key, detected, err := ObjectKey(filename)
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = detected
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return key, nil
}

// ObjectKey validates the extension of filename and derives a sanitised, unique object key
func ObjectKey(filename string) (string, string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	contentType, ok := AllowedUploadExtensions[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", entities.ErrUnsupportedFileType, filename)
	}

	base := slug.Make(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "file"
	}

	return fmt.Sprintf("uploads/%s-%s.%s", uuid.NewString()[:8], base, ext), contentType, nil
}

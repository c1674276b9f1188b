package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/userprofile/backend/config"
)

// AvatarKey is the deterministic storage key of a user's avatar.
func AvatarKey(userID uint) string {
	return fmt.Sprintf("avatars/%d_avatar.jpg", userID)
}

// S3AvatarStorage stores avatars in an S3 bucket
type S3AvatarStorage struct {
	s3Config *config.S3Config
}

// Ensure S3AvatarStorage implements AvatarStorage
var _ AvatarStorage = (*S3AvatarStorage)(nil)

// NewS3AvatarStorage creates a new S3AvatarStorage instance
func NewS3AvatarStorage(s3Config *config.S3Config) *S3AvatarStorage {
	return &S3AvatarStorage{s3Config: s3Config}
}

// Upload puts data under key. Errors wrap ErrStorageUnavailable together with
// ErrStorageConnection or ErrStorageUpload.
func (s *S3AvatarStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.s3Config.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return classifyStorageError(err)
	}
	return nil
}

// URL returns a presigned GET URL when the bucket is private, otherwise the
// public object URL.
func (s *S3AvatarStorage) URL(ctx context.Context, key string) (string, error) {
	if s.s3Config.URLExpiry > 0 {
		u, err := s.s3Config.GeneratePresignedURL(ctx, key, s.s3Config.URLExpiry)
		if err != nil {
			return "", classifyStorageError(err)
		}
		return u, nil
	}
	return strings.TrimRight(s.s3Config.PublicURL, "/") + "/" + key, nil
}

// Delete removes the object under key.
func (s *S3AvatarStorage) Delete(ctx context.Context, key string) error {
	_, err := s.s3Config.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return classifyStorageError(err)
	}
	return nil
}

func classifyStorageError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w: %v", ErrStorageUnavailable, ErrStorageConnection, err)
	}
	return fmt.Errorf("%w: %w: %v", ErrStorageUnavailable, ErrStorageUpload, err)
}

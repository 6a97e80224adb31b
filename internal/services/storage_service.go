package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"billingpanel/internal/common"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MaxAvatarSize caps organization avatar uploads at 1024 KB.
const MaxAvatarSize = 1024 * 1024

type StorageService interface {
	UploadAvatar(ctx context.Context, orgID uuid.UUID, filename, contentType string, size int64, reader io.Reader) (string, error)
	GetPresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
	EnsureBucketExists(ctx context.Context) error
}

type minioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool) (StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStorage{client: client, bucket: bucket}, nil
}

// UploadAvatar stores an organization avatar under the organization-scoped
// namespace and returns the object key.
func (m *minioStorage) UploadAvatar(ctx context.Context, orgID uuid.UUID, filename, contentType string, size int64, reader io.Reader) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", common.NewValidationError("avatar", "avatar must be an image")
	}
	if size > MaxAvatarSize {
		return "", common.NewValidationError("avatar", "avatar cannot exceed 1024 KB")
	}

	objectKey := fmt.Sprintf("organizations/%s/avatar%s", orgID.String(), path.Ext(filename))
	_, err := m.client.PutObject(ctx, m.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	return objectKey, nil
}

func (m *minioStorage) GetPresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, m.bucket, objectKey, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return m.client.RemoveObject(ctx, m.bucket, objectKey, minio.RemoveObjectOptions{})
}

func (m *minioStorage) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

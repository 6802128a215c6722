package s3

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Client struct {
	client *minio.Client
	bucket string
}

func NewMinioClient(endpoint, accessKey, secretKey, bucket string) (*Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &Client{client: client, bucket: bucket}, nil
}

func (c *Client) EnsureBucketExists(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// ArchiveMedia архивирует проанализированный файл под ключом {kind}/{uuid}{ext}
func (c *Client) ArchiveMedia(ctx context.Context, kind, filename, contentType string, reader io.Reader, size int64) (string, error) {
	if err := c.EnsureBucketExists(ctx); err != nil {
		return "", fmt.Errorf("bucket error: %w", err)
	}

	objectName := fmt.Sprintf("%s/%s%s", kind, uuid.New().String(), filepath.Ext(filename))

	_, err := c.client.PutObject(
		ctx,
		c.bucket,
		objectName,
		reader,
		size,
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return "", fmt.Errorf("upload error: %w", err)
	}

	url := fmt.Sprintf("http://%s/%s/%s", c.client.EndpointURL().Host, c.bucket, objectName)
	return url, nil
}

package store

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MirrorConfig holds object-store connection settings for archive mirroring.
type MirrorConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ArchiveMirror uploads finished job archives to an object-store bucket and
// hands back presigned download URLs. Mirroring is best-effort: callers log
// and ignore failures, the local archive stays the source of truth.
type ArchiveMirror struct {
	client *minio.Client
	bucket string
}

// NewArchiveMirror connects to the configured object store.
func NewArchiveMirror(cfg MirrorConfig) (*ArchiveMirror, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object store: %w", err)
	}
	return &ArchiveMirror{client: client, bucket: cfg.Bucket}, nil
}

// Upload stores the archive under courses/<job-id>/<filename> and returns a
// presigned URL valid for 24 hours.
func (m *ArchiveMirror) Upload(ctx context.Context, jobID, archivePath string) (string, error) {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return "", fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("create bucket: %w", err)
		}
	}

	objectName := path.Join("courses", jobID, path.Base(archivePath))
	_, err = m.client.FPutObject(ctx, m.bucket, objectName, archivePath, minio.PutObjectOptions{
		ContentType: "application/zip",
	})
	if err != nil {
		return "", fmt.Errorf("upload archive: %w", err)
	}

	presigned, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, 24*time.Hour, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign archive url: %w", err)
	}
	return presigned.String(), nil
}

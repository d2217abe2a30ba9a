// Package blobstore holds animation payloads in a MinIO (S3-compatible)
// bucket. Objects are keyed by a generated id that is unrelated to the
// metadata catalog's id space; uploader-supplied filename and content type
// ride along as object metadata and come back verbatim on fetch.
package blobstore

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"arwear-backend/internal/models"
)

const filenameMetaKey = "Filename"

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type Store struct {
	cl     *minio.Client
	bucket string
}

// Object is a single-pass handle on stored content. The caller owns Content
// and must close it.
type Object struct {
	Content     io.ReadCloser
	Filename    string
	ContentType string
	Size        int64
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	cl, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := cl.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := cl.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &Store{cl: cl, bucket: cfg.Bucket}, nil
}

// Store consumes r to its end without buffering it whole and returns the id
// of the new object. An empty stream yields a valid empty blob.
func (s *Store) Store(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	blobID := uuid.New().String()

	// Size -1 makes the client stream in multipart chunks.
	_, err := s.cl.PutObject(ctx, s.bucket, blobID, r, -1, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{filenameMetaKey: filename},
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to store blob: %v", models.ErrStorage, err)
	}

	return blobID, nil
}

// Fetch opens the object for one sequential read and echoes its metadata.
func (s *Store) Fetch(ctx context.Context, blobID string) (*Object, error) {
	info, err := s.cl.StatObject(ctx, s.bucket, blobID, minio.StatObjectOptions{})
	if err != nil {
		return nil, classify(err, blobID)
	}

	obj, err := s.cl.GetObject(ctx, s.bucket, blobID, minio.GetObjectOptions{})
	if err != nil {
		return nil, classify(err, blobID)
	}

	return &Object{
		Content:     obj,
		Filename:    info.UserMetadata[filenameMetaKey],
		ContentType: info.ContentType,
		Size:        info.Size,
	}, nil
}

// Delete removes the object and reports whether anything was there. Absence
// is not an error, so deletes are idempotent.
func (s *Store) Delete(ctx context.Context, blobID string) (bool, error) {
	_, err := s.cl.StatObject(ctx, s.bucket, blobID, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: failed to stat blob %s: %v", models.ErrStorage, blobID, err)
	}

	if err := s.cl.RemoveObject(ctx, s.bucket, blobID, minio.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("%w: failed to delete blob %s: %v", models.ErrStorage, blobID, err)
	}
	return true, nil
}

func classify(err error, blobID string) error {
	if isNoSuchKey(err) {
		return fmt.Errorf("%w: blob %s", models.ErrNotFound, blobID)
	}
	return fmt.Errorf("%w: failed to fetch blob %s: %v", models.ErrStorage, blobID, err)
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}

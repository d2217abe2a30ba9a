// Package media orchestrates the blob store and the metadata catalog: it
// owns upload ordering, streamed retrieval, the explore feed join and blob
// reclamation on delete. Every failure leaving this package is one of the
// models sentinel kinds.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"arwear-backend/internal/blobstore"
	"arwear-backend/internal/models"
)

const (
	DefaultFeedLimit = 10
	MaxFeedLimit     = 100

	defaultContentType = "application/octet-stream"
)

type BlobStore interface {
	Store(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
	Fetch(ctx context.Context, blobID string) (*blobstore.Object, error)
	Delete(ctx context.Context, blobID string) (bool, error)
}

type Catalog interface {
	CreateAnimation(ctx context.Context, a models.Animation) (models.Animation, error)
	GetAnimation(ctx context.Context, id string) (models.Animation, error)
	ListAnimations(ctx context.Context, limit, offset int) ([]models.Animation, int, error)
	ListPublicAnimations(ctx context.Context, limit, offset int) ([]models.Animation, int, error)
	ListAnimationsByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Animation, error)
	DeleteAnimation(ctx context.Context, id uuid.UUID) (models.BlobRefs, bool, error)
	DeleteAllAnimations(ctx context.Context) ([]models.BlobRefs, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error)
}

// EventPublisher announces finished uploads to the thumbnail pipeline.
type EventPublisher interface {
	PublishUploaded(ctx context.Context, animationID, blobID string) error
}

type UploadAttrs struct {
	Name           string
	Description    string
	IsPublic       bool
	PhysicalWidth  int
	PhysicalHeight int
}

// FileStream is a ready-to-serve download: single-pass content plus the
// headers it should be delivered with.
type FileStream struct {
	Content     io.ReadCloser
	Filename    string
	ContentType string
	Size        int64
}

type Service struct {
	blobs  BlobStore
	cat    Catalog
	events EventPublisher // may be nil; uploads never depend on it
}

func New(blobs BlobStore, cat Catalog, events EventPublisher) *Service {
	return &Service{blobs: blobs, cat: cat, events: events}
}

// Upload persists the payload first and the record second, so a failure in
// between can orphan a blob but never produce a record pointing at missing
// bytes. A failed record insert triggers a compensating blob delete.
func (s *Service) Upload(ctx context.Context, attrs UploadAttrs, file io.Reader, filename, contentType string, authorID uuid.UUID) (models.Animation, error) {
	if attrs.PhysicalWidth <= 0 || attrs.PhysicalHeight <= 0 {
		return models.Animation{}, fmt.Errorf("%w: physical dimensions must be positive", models.ErrValidation)
	}

	blobID, err := s.blobs.Store(ctx, file, filename, contentType)
	if err != nil {
		return models.Animation{}, err
	}

	record, err := s.cat.CreateAnimation(ctx, models.Animation{
		Name:           attrs.Name,
		Description:    attrs.Description,
		IsPublic:       attrs.IsPublic,
		PhysicalWidth:  attrs.PhysicalWidth,
		PhysicalHeight: attrs.PhysicalHeight,
		AuthorID:       authorID,
		FileBlobID:     blobID,
	})
	if err != nil {
		if _, delErr := s.blobs.Delete(ctx, blobID); delErr != nil {
			log.Printf("upload: failed to reclaim blob %s after create failure: %v", blobID, delErr)
		}
		return models.Animation{}, err
	}

	if s.events != nil {
		if pubErr := s.events.PublishUploaded(ctx, record.ID.String(), blobID); pubErr != nil {
			log.Printf("upload: failed to publish event for animation %s: %v", record.ID, pubErr)
		}
	}

	return record, nil
}

func (s *Service) GetMetadata(ctx context.Context, id string) (models.Animation, error) {
	return s.cat.GetAnimation(ctx, id)
}

func (s *Service) ListAnimations(ctx context.Context, limit, offset int) ([]models.Animation, int, error) {
	limit, offset = clampPage(limit, offset)
	return s.cat.ListAnimations(ctx, limit, offset)
}

func (s *Service) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Animation, error) {
	return s.cat.ListAnimationsByAuthor(ctx, authorID)
}

// StreamFile resolves the record and opens its blob for delivery. Private
// records stream only for their author; a missing record, blob reference or
// blob all normalize to not-found.
func (s *Service) StreamFile(ctx context.Context, id string, caller *uuid.UUID) (*FileStream, error) {
	record, err := s.cat.GetAnimation(ctx, id)
	if err != nil {
		return nil, err
	}

	if !record.IsPublic && (caller == nil || *caller != record.AuthorID) {
		return nil, fmt.Errorf("%w: animation %s is private", models.ErrForbidden, id)
	}

	if record.FileBlobID == "" {
		return nil, fmt.Errorf("%w: animation %s has no file", models.ErrNotFound, id)
	}

	obj, err := s.blobs.Fetch(ctx, record.FileBlobID)
	if err != nil {
		return nil, err
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	return &FileStream{
		Content:     obj.Content,
		Filename:    obj.Filename,
		ContentType: contentType,
		Size:        obj.Size,
	}, nil
}

// ExploreFeed returns one page of public records joined with author
// previews. Authors are resolved in a single batched lookup per page.
func (s *Service) ExploreFeed(ctx context.Context, limit, offset int) (models.ExploreResponse, error) {
	limit, offset = clampPage(limit, offset)

	animations, total, err := s.cat.ListPublicAnimations(ctx, limit, offset)
	if err != nil {
		return models.ExploreResponse{}, err
	}

	authorIDs := make([]uuid.UUID, 0, len(animations))
	seen := make(map[uuid.UUID]bool, len(animations))
	for _, a := range animations {
		if !seen[a.AuthorID] {
			seen[a.AuthorID] = true
			authorIDs = append(authorIDs, a.AuthorID)
		}
	}

	authors, err := s.cat.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return models.ExploreResponse{}, err
	}

	previews := make([]models.AnimationPreview, 0, len(animations))
	for _, a := range animations {
		author := authors[a.AuthorID]
		previews = append(previews, models.AnimationPreview{
			AnimationID:        a.ID.String(),
			Thumbnail:          a.ThumbnailBlobID,
			AuthorName:         author.Name,
			AuthorProfileImage: author.ImageBase64,
			Title:              a.Name,
			CreatedAt:          a.CreatedAt,
		})
	}

	return models.ExploreResponse{
		Animations: previews,
		Pagination: models.Pagination{Limit: limit, Offset: offset, TotalCount: total},
	}, nil
}

// Delete removes a caller-owned record and reclaims its blobs.
func (s *Service) Delete(ctx context.Context, id string, caller uuid.UUID) error {
	record, err := s.cat.GetAnimation(ctx, id)
	if err != nil {
		return err
	}
	if record.AuthorID != caller {
		return fmt.Errorf("%w: animation %s belongs to another user", models.ErrForbidden, id)
	}

	refs, deleted, err := s.cat.DeleteAnimation(ctx, record.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: animation %s", models.ErrNotFound, id)
	}

	s.reclaim(ctx, refs)
	return nil
}

// DeleteAll purges the whole catalog and reclaims every referenced blob.
// Blob deletes are idempotent, so a retried purge converges.
func (s *Service) DeleteAll(ctx context.Context) (int, error) {
	refs, err := s.cat.DeleteAllAnimations(ctx)
	if err != nil {
		return 0, err
	}

	for _, r := range refs {
		s.reclaim(ctx, r)
	}
	return len(refs), nil
}

func (s *Service) reclaim(ctx context.Context, refs models.BlobRefs) {
	for _, blobID := range []string{refs.File, refs.Thumbnail} {
		if blobID == "" {
			continue
		}
		if _, err := s.blobs.Delete(ctx, blobID); err != nil && !errors.Is(err, models.ErrNotFound) {
			log.Printf("delete: failed to reclaim blob %s: %v", blobID, err)
		}
	}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

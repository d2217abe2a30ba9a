package models

import (
	"time"

	"github.com/google/uuid"
)

// Animation is the metadata record describing one uploaded animation. The
// binary payload itself lives in the blob store under FileBlobID; the record
// and its blob share no id space.
type Animation struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"animationName"`
	Description     string    `json:"animationDescription"`
	IsPublic        bool      `json:"isPublic"`
	PhysicalWidth   int       `json:"physicalWidth"`
	PhysicalHeight  int       `json:"physicalHeight"`
	AuthorID        uuid.UUID `json:"author_id"`
	FileBlobID      string    `json:"animationFileId"`
	ThumbnailBlobID string    `json:"thumbnailFileId,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// BlobRefs carries the blob ids released by a deleted record so the caller
// can reclaim the underlying objects.
type BlobRefs struct {
	File      string
	Thumbnail string
}

// AnimationPreview is one entry of the explore feed: the record joined with
// a minimal view of its author.
type AnimationPreview struct {
	AnimationID        string    `json:"animation_id"`
	Thumbnail          string    `json:"thumbnail"`
	AuthorName         string    `json:"author_name"`
	AuthorProfileImage string    `json:"author_profile_image"`
	Title              string    `json:"title"`
	CreatedAt          time.Time `json:"created_at"`
}

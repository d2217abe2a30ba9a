// Package catalog is the metadata store: animation records plus the user,
// garment and library collections they reference. All lookups by possibly
// client-supplied ids normalize malformed input to models.ErrNotFound so
// callers never see a parse failure.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"arwear-backend/internal/models"
)

type Client struct {
	db *sql.DB
}

func NewClient(db *sql.DB) *Client {
	return &Client{db: db}
}

const animationColumns = `id, name, description, is_public, physical_width, physical_height, author_id, file_blob_id, thumbnail_blob_id, created_at`

// CreateAnimation assigns the id and creation timestamp, persists the record
// and returns it. Dimensions must be positive.
func (c *Client) CreateAnimation(ctx context.Context, a models.Animation) (models.Animation, error) {
	if a.PhysicalWidth <= 0 || a.PhysicalHeight <= 0 {
		return models.Animation{}, fmt.Errorf("%w: physical dimensions must be positive", models.ErrValidation)
	}
	if a.AuthorID == uuid.Nil {
		return models.Animation{}, fmt.Errorf("%w: author is required", models.ErrValidation)
	}

	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO animations (id, name, description, is_public, physical_width, physical_height, author_id, file_blob_id, thumbnail_blob_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, a.ID, a.Name, a.Description, a.IsPublic, a.PhysicalWidth, a.PhysicalHeight,
		a.AuthorID, a.FileBlobID, nullableString(a.ThumbnailBlobID), a.CreatedAt)
	if err != nil {
		return models.Animation{}, fmt.Errorf("%w: failed to create animation: %v", models.ErrStorage, err)
	}

	return a, nil
}

// GetAnimation resolves a record by its string id. A malformed id behaves
// exactly like an unknown one.
func (c *Client) GetAnimation(ctx context.Context, id string) (models.Animation, error) {
	animationID, err := uuid.Parse(id)
	if err != nil {
		return models.Animation{}, fmt.Errorf("%w: animation %q", models.ErrNotFound, id)
	}

	row := c.db.QueryRowContext(ctx, `
		SELECT `+animationColumns+`
		FROM animations
		WHERE id = $1
	`, animationID)

	a, err := scanAnimation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Animation{}, fmt.Errorf("%w: animation %q", models.ErrNotFound, id)
		}
		return models.Animation{}, fmt.Errorf("%w: failed to get animation %s: %v", models.ErrStorage, id, err)
	}

	return a, nil
}

// ListAnimations returns one page of records, newest first, together with the
// total record count.
func (c *Client) ListAnimations(ctx context.Context, limit, offset int) ([]models.Animation, int, error) {
	return c.listPage(ctx, limit, offset, false)
}

// ListPublicAnimations is ListAnimations restricted to records visible to
// everyone. It feeds the explore page.
func (c *Client) ListPublicAnimations(ctx context.Context, limit, offset int) ([]models.Animation, int, error) {
	return c.listPage(ctx, limit, offset, true)
}

func (c *Client) listPage(ctx context.Context, limit, offset int, publicOnly bool) ([]models.Animation, int, error) {
	where := ""
	if publicOnly {
		where = "WHERE is_public = TRUE"
	}

	var total int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM animations `+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: failed to count animations: %v", models.ErrStorage, err)
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT `+animationColumns+`
		FROM animations `+where+`
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to list animations: %v", models.ErrStorage, err)
	}
	defer rows.Close()

	animations, err := collectAnimations(rows)
	if err != nil {
		return nil, 0, err
	}
	return animations, total, nil
}

func (c *Client) ListAnimationsByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Animation, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT `+animationColumns+`
		FROM animations
		WHERE author_id = $1
		ORDER BY created_at DESC
	`, authorID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list animations by author: %v", models.ErrStorage, err)
	}
	defer rows.Close()

	return collectAnimations(rows)
}

func (c *Client) GetAnimationsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Animation, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT `+animationColumns+`
		FROM animations
		WHERE id = ANY($1)
		ORDER BY created_at DESC
	`, uuidArray(ids))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get animations: %v", models.ErrStorage, err)
	}
	defer rows.Close()

	return collectAnimations(rows)
}

// SetAnimationThumbnail attaches a thumbnail blob to an existing record.
func (c *Client) SetAnimationThumbnail(ctx context.Context, id uuid.UUID, blobID string) error {
	res, err := c.db.ExecContext(ctx, `
		UPDATE animations
		SET thumbnail_blob_id = $1
		WHERE id = $2
	`, blobID, id)
	if err != nil {
		return fmt.Errorf("%w: failed to set thumbnail: %v", models.ErrStorage, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: animation %s", models.ErrNotFound, id)
	}
	return nil
}

// DeleteAnimation removes one record and reports the blob references it held.
func (c *Client) DeleteAnimation(ctx context.Context, id uuid.UUID) (models.BlobRefs, bool, error) {
	var (
		file  string
		thumb sql.NullString
	)
	err := c.db.QueryRowContext(ctx, `
		DELETE FROM animations
		WHERE id = $1
		RETURNING file_blob_id, thumbnail_blob_id
	`, id).Scan(&file, &thumb)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BlobRefs{}, false, nil
		}
		return models.BlobRefs{}, false, fmt.Errorf("%w: failed to delete animation %s: %v", models.ErrStorage, id, err)
	}

	return models.BlobRefs{File: file, Thumbnail: thumb.String}, true, nil
}

// DeleteAllAnimations purges the collection and returns the blob references
// of every removed record so their objects can be reclaimed.
func (c *Client) DeleteAllAnimations(ctx context.Context) ([]models.BlobRefs, error) {
	rows, err := c.db.QueryContext(ctx, `
		DELETE FROM animations
		RETURNING file_blob_id, thumbnail_blob_id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to delete animations: %v", models.ErrStorage, err)
	}
	defer rows.Close()

	var refs []models.BlobRefs
	for rows.Next() {
		var (
			file  string
			thumb sql.NullString
		)
		if err := rows.Scan(&file, &thumb); err != nil {
			return nil, fmt.Errorf("%w: failed to scan deleted animation: %v", models.ErrStorage, err)
		}
		refs = append(refs, models.BlobRefs{File: file, Thumbnail: thumb.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to delete animations: %v", models.ErrStorage, err)
	}

	return refs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimation(row rowScanner) (models.Animation, error) {
	var (
		a     models.Animation
		thumb sql.NullString
	)
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.IsPublic,
		&a.PhysicalWidth, &a.PhysicalHeight, &a.AuthorID,
		&a.FileBlobID, &thumb, &a.CreatedAt)
	if err != nil {
		return models.Animation{}, err
	}
	a.ThumbnailBlobID = thumb.String
	return a, nil
}

func collectAnimations(rows *sql.Rows) ([]models.Animation, error) {
	var animations []models.Animation
	for rows.Next() {
		a, err := scanAnimation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan animation: %v", models.ErrStorage, err)
		}
		animations = append(animations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read animations: %v", models.ErrStorage, err)
	}
	return animations, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

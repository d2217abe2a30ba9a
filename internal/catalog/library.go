package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"arwear-backend/internal/models"
)

// AddToLibrary saves an animation into a user's library. Adding the same
// animation twice is a no-op, mirroring set semantics.
func (c *Client) AddToLibrary(ctx context.Context, userID, animationID uuid.UUID) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO library_items (user_id, animation_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, animation_id) DO NOTHING
	`, userID, animationID)
	if err != nil {
		return fmt.Errorf("%w: failed to add to library: %v", models.ErrStorage, err)
	}
	return nil
}

func (c *Client) ListLibraryAnimationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT animation_id
		FROM library_items
		WHERE user_id = $1
		ORDER BY added_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list library: %v", models.ErrStorage, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: failed to scan library item: %v", models.ErrStorage, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read library: %v", models.ErrStorage, err)
	}
	return ids, nil
}

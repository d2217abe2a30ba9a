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

const garmentColumns = `id, user_id, name, uid, animation_id, created_at`

func (c *Client) CreateGarment(ctx context.Context, userID uuid.UUID, name, uid string) (models.Garment, error) {
	g := models.Garment{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		UID:       uid,
		CreatedAt: time.Now().UTC(),
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO garments (id, user_id, name, uid, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, g.ID, g.UserID, g.Name, g.UID, g.CreatedAt)
	if err != nil {
		return models.Garment{}, fmt.Errorf("%w: failed to create garment: %v", models.ErrStorage, err)
	}

	return g, nil
}

func (c *Client) GetGarment(ctx context.Context, id uuid.UUID) (models.Garment, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT `+garmentColumns+`
		FROM garments
		WHERE id = $1
	`, id)

	g, err := scanGarment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Garment{}, fmt.Errorf("%w: garment %s", models.ErrNotFound, id)
		}
		return models.Garment{}, fmt.Errorf("%w: failed to get garment %s: %v", models.ErrStorage, id, err)
	}
	return g, nil
}

func (c *Client) ListGarments(ctx context.Context) ([]models.Garment, error) {
	return c.listGarments(ctx, `SELECT `+garmentColumns+` FROM garments ORDER BY created_at`)
}

func (c *Client) ListGarmentsByUser(ctx context.Context, userID uuid.UUID) ([]models.Garment, error) {
	return c.listGarments(ctx, `SELECT `+garmentColumns+` FROM garments WHERE user_id = $1 ORDER BY created_at`, userID)
}

func (c *Client) listGarments(ctx context.Context, query string, args ...any) ([]models.Garment, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list garments: %v", models.ErrStorage, err)
	}
	defer rows.Close()

	var garments []models.Garment
	for rows.Next() {
		g, err := scanGarment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan garment: %v", models.ErrStorage, err)
		}
		garments = append(garments, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read garments: %v", models.ErrStorage, err)
	}
	return garments, nil
}

// SetGarmentAnimation links an animation to a garment.
func (c *Client) SetGarmentAnimation(ctx context.Context, garmentID, animationID uuid.UUID) (bool, error) {
	res, err := c.db.ExecContext(ctx, `
		UPDATE garments
		SET animation_id = $1
		WHERE id = $2
	`, animationID, garmentID)
	if err != nil {
		return false, fmt.Errorf("%w: failed to update garment %s: %v", models.ErrStorage, garmentID, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (c *Client) DeleteAllGarments(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM garments`)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to delete garments: %v", models.ErrStorage, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func scanGarment(row rowScanner) (models.Garment, error) {
	var (
		g           models.Garment
		animationID uuid.NullUUID
	)
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.UID, &animationID, &g.CreatedAt)
	if err != nil {
		return models.Garment{}, err
	}
	if animationID.Valid {
		g.AnimationID = &animationID.UUID
	}
	return g, nil
}

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"arwear-backend/internal/models"
)

const userColumns = `id, name, email, description, image_base64, created_at`

func (c *Client) CreateUser(ctx context.Context, name, email string) (models.User, error) {
	u := models.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, description, image_base64, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Name, u.Email, u.Description, u.ImageBase64, u.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: failed to create user: %v", models.ErrStorage, err)
	}

	return u, nil
}

func (c *Client) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	var u models.User
	err := c.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.Description, &u.ImageBase64, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%w: user %s", models.ErrNotFound, id)
		}
		return models.User{}, fmt.Errorf("%w: failed to get user %s: %v", models.ErrStorage, id, err)
	}
	return u, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list users: %v", models.ErrStorage, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Description, &u.ImageBase64, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan user: %v", models.ErrStorage, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read users: %v", models.ErrStorage, err)
	}
	return users, nil
}

// GetUsersByIDs resolves a set of users in one round trip. Unknown ids are
// simply absent from the result.
func (c *Client) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	users := make(map[uuid.UUID]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = ANY($1)
	`, uuidArray(ids))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get users: %v", models.ErrStorage, err)
	}
	defer rows.Close()

	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Description, &u.ImageBase64, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan user: %v", models.ErrStorage, err)
		}
		users[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read users: %v", models.ErrStorage, err)
	}
	return users, nil
}

func (c *Client) UpdateUser(ctx context.Context, id uuid.UUID, req models.UpdateUserRequest) (bool, error) {
	res, err := c.db.ExecContext(ctx, `
		UPDATE users
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description),
		    image_base64 = COALESCE($3, image_base64)
		WHERE id = $4
	`, req.Name, req.Description, req.ImageBase64, id)
	if err != nil {
		return false, fmt.Errorf("%w: failed to update user %s: %v", models.ErrStorage, id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := c.db.ExecContext(ctx, `
		DELETE FROM users
		WHERE id = $1
	`, id)
	if err != nil {
		return false, fmt.Errorf("%w: failed to delete user %s: %v", models.ErrStorage, id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func uuidArray(ids []uuid.UUID) any {
	ss := make([]string, len(ids))
	for i, id := range ids {
		ss[i] = id.String()
	}
	return pq.Array(ss)
}

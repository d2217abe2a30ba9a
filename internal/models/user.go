package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Description string    `json:"description,omitempty"`
	ImageBase64 string    `json:"imageBase64,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Garment is a physical wearable owned by a user. AnimationID points at the
// animation currently linked to it, if any.
type Garment struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Name        string     `json:"name"`
	UID         string     `json:"uid"`
	AnimationID *uuid.UUID `json:"animation_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

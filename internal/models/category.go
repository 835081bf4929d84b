package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a user-owned label for todos. Its lifecycle is independent of
// the todos that reference it.
type Category struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	IconTag   string    `json:"iconTag"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

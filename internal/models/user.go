package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTheme is assigned to new accounts.
const DefaultTheme = "default"

// User represents a user in the system. PasswordHash is nil for accounts
// created through Google login.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           *string   `json:"name,omitempty"`
	PasswordHash   *string   `json:"-"`
	ImageURL       *string   `json:"imageUrl,omitempty"`
	Occupation     *string   `json:"occupation,omitempty"`
	AdditionalInfo *string   `json:"additionalInfo,omitempty"`
	Theme          string    `json:"theme"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the local account an external identity is linked to.
// Exactly one User exists per email; the row is created on first sign-in and
// never updated by later sign-ins.
type User struct {
	// ID is an opaque unique identifier, a random UUID assigned on create.
	ID string `gorm:"primaryKey;size:36"`
	// Name is the display name taken from the identity provider on first sign-in.
	Name string `gorm:"size:255;not null"`
	// Email is the join key between external identities and local users.
	Email string `gorm:"uniqueIndex;size:191;not null"`
	// ProfilePicture is the avatar URL reported by the provider, if any.
	ProfilePicture string `gorm:"size:2048"`
	// IsVerified mirrors the provider's email verification flag.
	IsVerified bool `gorm:"not null"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// BeforeCreate assigns a UUID when the caller left ID empty.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	return nil
}

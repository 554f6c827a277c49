package models

import (
	"time"

	"github.com/google/uuid"
)

// Code holds the argon2id hash of the confirmation code most recently mailed
// to a user. At most one live code exists per user: a new signup overwrites
// the row, and a successful token exchange deletes it.
type Code struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	CodeHash  string    `gorm:"type:varchar(255);not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"-"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

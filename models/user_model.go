package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is never serialized directly; responses go through UserResponse.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	FullName string    `gorm:"size:255;not null"`
	Email    string    `gorm:"size:255;not null;unique"`
	Password string    `gorm:"not null" json:"-"`
	IsHost   bool      `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Hotel is owned by exactly one host, fixed at creation.
type Hotel struct {
	ID          uint      `gorm:"primaryKey"`
	Slug        string    `gorm:"size:120;not null;uniqueIndex"`
	Name        string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text"`
	HostID      uuid.UUID `gorm:"type:uuid;not null;index"`
	LocationID  uint      `gorm:"not null"`

	Host     User      `gorm:"foreignKey:HostID"`
	Location Location  `gorm:"foreignKey:LocationID"`
	Gallery  []Gallery `gorm:"foreignKey:HotelID"`
	Rooms    []Room    `gorm:"foreignKey:HotelID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrGalleryOwner = errors.New("gallery image must belong to exactly one hotel or room")

// Gallery is an image attached to either a hotel or a room, never both.
type Gallery struct {
	ID      uint   `gorm:"primaryKey"`
	Image   string `gorm:"type:text;not null"`
	HotelID *uint  `gorm:"index"`
	RoomID  *uint  `gorm:"index"`

	CreatedAt time.Time
}

func (g *Gallery) BeforeSave(tx *gorm.DB) error {
	if (g.HotelID == nil) == (g.RoomID == nil) {
		return ErrGalleryOwner
	}
	return nil
}

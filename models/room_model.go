package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room is looked up publicly by UUID; ID only orders listings.
type Room struct {
	ID          uint      `gorm:"primaryKey"`
	UUID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	HotelID     uint      `gorm:"not null;index"`
	Name        string    `gorm:"size:255;not null"`
	RoomType    string    `gorm:"size:50;not null;default:'standard'"`
	Price       float64   `gorm:"type:numeric(10,2);not null"`
	Capacity    int       `gorm:"not null;default:1"`
	Description string    `gorm:"type:text"`

	Hotel   Hotel     `gorm:"foreignKey:HotelID"`
	Gallery []Gallery `gorm:"foreignKey:RoomID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	return nil
}

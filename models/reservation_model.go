package models

import (
	"time"

	"github.com/google/uuid"
)

type Reservation struct {
	ID        uint      `gorm:"primaryKey"`
	GuestID   uuid.UUID `gorm:"type:uuid;not null;index"`
	RoomID    uint      `gorm:"not null;index"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null;index"`

	Guest User `gorm:"foreignKey:GuestID"`
	Room  Room `gorm:"foreignKey:RoomID"`

	CreatedAt time.Time
}

package models

type Location struct {
	ID      uint   `gorm:"primaryKey"`
	Country string `gorm:"size:100;not null;index"`
	City    string `gorm:"size:100;not null;index"`
	Address string `gorm:"size:255;not null"`
}

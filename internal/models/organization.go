package models

import "time"

type Organization struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:100;not null;unique"`
	ContactEmail string `gorm:"size:100"`
	Phone        string `gorm:"size:50"` // Opsiyonel telefon
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Branches []Branch
}

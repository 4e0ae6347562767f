package models

import "time"

// Category - Puan kurallarında boyut olarak kullanılan katalog kategorisi
type Category struct {
	ID             uint `gorm:"primaryKey"`
	OrganizationID uint `gorm:"index;not null"`
	Organization   Organization
	Name           string `gorm:"size:100;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

package models

import "time"

type Branch struct {
	ID             uint `gorm:"primaryKey"`
	OrganizationID uint `gorm:"index;not null"`
	Organization   Organization
	Name           string `gorm:"size:100;not null"`
	Address        string `gorm:"size:255"`
	Phone          string `gorm:"size:50"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Users []User
}

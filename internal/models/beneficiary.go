package models

import "time"

// Beneficiary - Sadakat programına kayıtlı üye (son müşteri).
// AvailablePoints bakiyesi veritabanı tarafındaki trigger'lar tarafından
// güncellenir; uygulama katmanı sadece okur.
type Beneficiary struct {
	ID              uint `gorm:"primaryKey"`
	OrganizationID  uint `gorm:"index;not null"`
	Organization    Organization
	FullName        string `gorm:"size:150;not null"`
	Phone           string `gorm:"size:50;index"`
	Email           string `gorm:"size:100"`
	AvailablePoints int64  `gorm:"not null;default:0"` // Mevcut puan bakiyesi
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

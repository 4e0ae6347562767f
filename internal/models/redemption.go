package models

import "time"

// Redemption - Üyenin puan harcaması. Bakiye düşümü veritabanı tarafındaki
// trigger ile yapılır (alışveriş akışındaki puan ekleme ile aynı yaklaşım).
type Redemption struct {
	ID             uint `gorm:"primaryKey"`
	BeneficiaryID  uint `gorm:"index;not null"`
	Beneficiary    Beneficiary
	CashierID      uint `gorm:"index;not null"`
	Cashier        User `gorm:"foreignKey:CashierID"`
	BranchID       uint `gorm:"index;not null"`
	Branch         Branch
	PointsSpent    int64     `gorm:"not null"`
	Description    string    `gorm:"size:500"`
	RedemptionDate time.Time `gorm:"index;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

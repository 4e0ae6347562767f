package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase - Kasiyerin girdiği tek bir alışveriş (header kaydı).
// Oluşturulduktan sonra değiştirilmez ve silinmez.
// Invariant: TotalAmount == sum(item.Quantity * item.UnitPrice)
type Purchase struct {
	ID             uint `gorm:"primaryKey"`
	BeneficiaryID  uint `gorm:"index;not null"`
	Beneficiary    Beneficiary
	CashierID      uint `gorm:"index;not null"`
	Cashier        User `gorm:"foreignKey:CashierID"`
	BranchID       uint `gorm:"index;not null"`
	Branch         Branch
	TotalAmount    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	PointsEarned   int64           `gorm:"not null;default:0"`
	Notes          string          `gorm:"size:500"`
	PurchaseNumber string          `gorm:"size:30;uniqueIndex;not null"` // store katmanı atar
	PurchaseDate   time.Time       `gorm:"index;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

// PurchaseItem - Alışverişteki tek bir satır. ItemName serbest metindir,
// katalogla foreign key ilişkisi yoktur.
type PurchaseItem struct {
	ID           uint            `gorm:"primaryKey"`
	PurchaseID   uint            `gorm:"index;not null"`
	ItemName     string          `gorm:"size:200;not null"`
	Quantity     int             `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(20,4);not null"` // Quantity * UnitPrice
	PointsEarned int64           `gorm:"not null;default:0"`          // pay edilen puan (floor)
	CreatedAt    time.Time
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PointRuleType string

const (
	PointRuleFixed      PointRuleType = "fixed"      // sabit puan
	PointRulePercentage PointRuleType = "percentage" // tutarın yüzdesi
	PointRulePerAmount  PointRuleType = "per_amount" // her X TL için Y puan
	PointRuleTiered     PointRuleType = "tiered"     // kademeli
)

// PointRule - Puan kazanım kuralı. Kuralların değerlendirilmesi veritabanındaki
// calculate_points fonksiyonunda yapılır; uygulama katmanı kuralları sadece
// yönetir (CRUD), asla kendisi hesaplamaz.
type PointRule struct {
	ID             uint `gorm:"primaryKey"`
	OrganizationID uint `gorm:"index;not null"`
	Organization   Organization
	BranchID       *uint // nil ise tüm şubeler
	Branch         *Branch
	CategoryID     *uint // nil ise tüm kategoriler
	Category       *Category
	Name           string          `gorm:"size:100;not null"`
	Type           PointRuleType   `gorm:"size:20;not null"`
	Value          decimal.Decimal `gorm:"type:decimal(20,4);not null"` // tipine göre puan / yüzde / oran
	MinAmount      decimal.Decimal `gorm:"type:decimal(20,4);default:0"`
	StartHour      *int            // günün saati penceresi (0-23)
	EndHour        *int
	DaysOfWeek     string     `gorm:"size:20"` // ör: "1,2,3,4,5" (Pzt=1)
	ValidFrom      *time.Time `gorm:"index"`
	ValidUntil     *time.Time `gorm:"index"`
	Priority       int        `gorm:"not null;default:0"` // yüksek öncelik kazanır
	IsActive       bool       `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

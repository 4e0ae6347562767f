package purchase

import (
	"errors"
	"strconv"
	"time"

	"sadakat-backend/internal/models"

	"gorm.io/gorm"
)

type ListFilters struct {
	BranchID       *uint
	OrganizationID *uint
	StartDate      *time.Time
	EndDate        *time.Time
}

// BeneficiaryPurchases - üyenin tüm alışverişleri, tarihe göre yeniden eskiye
func BeneficiaryPurchases(db *gorm.DB, beneficiaryID uint) ([]models.Purchase, error) {
	var rows []models.Purchase
	err := db.Model(&models.Purchase{}).
		Preload("Items").
		Preload("Cashier").
		Preload("Branch").
		Where("beneficiary_id = ?", beneficiaryID).
		Order("purchase_date desc, id desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AllPurchases - operatör görünümü. Organizasyon filtresi veritabanına
// itilmez; etkili bir organizasyon belirlenebiliyorsa sonuç kümesi fetch
// SONRASINDA uygulama katmanında daraltılır. Çağıranlar bu görünüm için
// veritabanı seviyesinde organizasyon izolasyonu varsaymamalı.
func AllPurchases(db *gorm.DB, f ListFilters, activeOrg string) ([]models.Purchase, error) {
	q := db.Model(&models.Purchase{}).
		Preload("Items").
		Preload("Branch").
		Preload("Beneficiary").
		Preload("Cashier")

	if f.BranchID != nil {
		q = q.Where("branch_id = ?", *f.BranchID)
	}
	if f.StartDate != nil {
		q = q.Where("purchase_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("purchase_date <= ?", *f.EndDate)
	}

	var rows []models.Purchase
	if err := q.Order("purchase_date desc, id desc").Find(&rows).Error; err != nil {
		return nil, err
	}

	if orgID, ok := effectiveOrganization(f.OrganizationID, activeOrg); ok {
		rows = filterByOrganization(rows, orgID)
	}
	return rows, nil
}

// PurchaseByID - tek alışveriş, tüm ilişkileriyle
func PurchaseByID(db *gorm.DB, id uint) (*models.Purchase, *OpError) {
	var p models.Purchase
	err := db.Model(&models.Purchase{}).
		Preload("Items").
		Preload("Beneficiary").
		Preload("Cashier").
		Preload("Branch").
		Preload("Branch.Organization").
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opErr(ErrNotFound, "Alışveriş bulunamadı", err)
		}
		return nil, opErr(ErrUnexpected, "Alışveriş sorgulanamadı", err)
	}
	return &p, nil
}

// effectiveOrganization - açık filtre varsa onu, yoksa istek kapsamındaki
// aktif organizasyon değerini (sayısal ise) kullanır. İkisi de yoksa
// organizasyon filtresi uygulanmaz.
func effectiveOrganization(explicit *uint, activeOrg string) (uint, bool) {
	if explicit != nil {
		return *explicit, true
	}
	if activeOrg != "" {
		if n, err := strconv.ParseUint(activeOrg, 10, 32); err == nil {
			return uint(n), true
		}
	}
	return 0, false
}

func filterByOrganization(rows []models.Purchase, organizationID uint) []models.Purchase {
	filtered := make([]models.Purchase, 0, len(rows))
	for _, r := range rows {
		if r.Branch.OrganizationID == organizationID {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

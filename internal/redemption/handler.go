package redemption

import (
	"fmt"
	"time"

	"sadakat-backend/internal/audit"
	"sadakat-backend/internal/auth"
	"sadakat-backend/internal/cache"
	"sadakat-backend/internal/database"
	"sadakat-backend/internal/logger"
	"sadakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateRedemptionRequest struct {
	BeneficiaryID uint   `json:"beneficiary_id"`
	PointsSpent   int64  `json:"points_spent"`
	Description   string `json:"description"`
	BranchID      *uint  `json:"branch_id"` // kasiyer için token'dan çözülür
}

type RedemptionResponse struct {
	ID              uint   `json:"id"`
	BeneficiaryID   uint   `json:"beneficiary_id"`
	BeneficiaryName string `json:"beneficiary_name,omitempty"`
	CashierID       uint   `json:"cashier_id"`
	BranchID        uint   `json:"branch_id"`
	PointsSpent     int64  `json:"points_spent"`
	Description     string `json:"description"`
	RedemptionDate  string `json:"redemption_date"`
}

// POST /api/redemptions
func CreateRedemptionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRedemptionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.BeneficiaryID == 0 || body.PointsSpent <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "beneficiary_id ve points_spent zorunlu, puan > 0 olmalı")
		}

		userIDVal := c.Locals(auth.CtxUserIDKey)
		userID, ok := userIDVal.(uint)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
		}

		var branchID uint
		if body.BranchID != nil {
			branchID = *body.BranchID
		} else {
			bVal := c.Locals(auth.CtxBranchIDKey)
			bPtr, ok := bVal.(*uint)
			if !ok || bPtr == nil {
				return fiber.NewError(fiber.StatusBadRequest, "branch_id zorunlu")
			}
			branchID = *bPtr
		}

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
		}

		var b models.Beneficiary
		if err := database.DB.First(&b, "id = ?", body.BeneficiaryID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Üye bulunamadı")
		}

		if b.AvailablePoints < body.PointsSpent {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Yetersiz puan bakiyesi: mevcut %d, istenen %d", b.AvailablePoints, body.PointsSpent))
		}

		r := models.Redemption{
			BeneficiaryID:  body.BeneficiaryID,
			CashierID:      userID,
			BranchID:       branchID,
			PointsSpent:    body.PointsSpent,
			Description:    body.Description,
			RedemptionDate: time.Now(),
		}

		// Bakiye düşümü veritabanı trigger'ında; uygulama sadece kaydı yazar.
		if err := database.DB.Create(&r).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İtfa kaydedilemedi")
		}

		if err := cache.Remove(cache.BeneficiaryListKey(branch.OrganizationID)); err != nil {
			logger.L.Warnf("İtfa sonrası cache temizlenemedi: %v", err)
		}

		var user models.User
		userName := ""
		if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
			userName = user.Name
		}
		if logErr := audit.WriteLog(audit.LogOptions{
			OrganizationID: &branch.OrganizationID,
			BranchID:       &branchID,
			UserID:         userID,
			UserName:       userName,
			EntityType:     "redemption",
			EntityID:       r.ID,
			Action:         models.AuditActionCreate,
			Description:    fmt.Sprintf("Puan itfası: %s - %d puan", b.FullName, r.PointsSpent),
			After:          r,
		}); logErr != nil {
			logger.LogError("redemption", "CreateRedemptionHandler", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(RedemptionResponse{
			ID:              r.ID,
			BeneficiaryID:   r.BeneficiaryID,
			BeneficiaryName: b.FullName,
			CashierID:       r.CashierID,
			BranchID:        r.BranchID,
			PointsSpent:     r.PointsSpent,
			Description:     r.Description,
			RedemptionDate:  r.RedemptionDate.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/redemptions?beneficiary_id=...&branch_id=...&from=...&to=...
func ListRedemptionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Redemption{}).
			Preload("Beneficiary").
			Preload("Branch")

		if bidStr := c.Query("beneficiary_id"); bidStr != "" {
			var bid uint
			if _, err := fmt.Sscan(bidStr, &bid); err != nil || bid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "beneficiary_id geçersiz")
			}
			dbq = dbq.Where("beneficiary_id = ?", bid)
		}
		if bidStr := c.Query("branch_id"); bidStr != "" {
			var bid uint
			if _, err := fmt.Sscan(bidStr, &bid); err != nil || bid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "branch_id geçersiz")
			}
			dbq = dbq.Where("branch_id = ?", bid)
		}
		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from geçersiz")
			}
			dbq = dbq.Where("redemption_date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to geçersiz")
			}
			dbq = dbq.Where("redemption_date <= ?", to)
		}

		var rows []models.Redemption
		if err := dbq.Order("redemption_date desc, id desc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İtfalar listelenemedi")
		}

		resp := make([]RedemptionResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, RedemptionResponse{
				ID:              r.ID,
				BeneficiaryID:   r.BeneficiaryID,
				BeneficiaryName: r.Beneficiary.FullName,
				CashierID:       r.CashierID,
				BranchID:        r.BranchID,
				PointsSpent:     r.PointsSpent,
				Description:     r.Description,
				RedemptionDate:  r.RedemptionDate.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(resp)
	}
}

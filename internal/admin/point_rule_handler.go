package admin

import (
	"fmt"
	"strings"
	"time"

	"sadakat-backend/internal/database"
	"sadakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Puan kuralları burada sadece yönetilir (CRUD); değerlendirme veritabanındaki
// calculate_points fonksiyonunun işidir.

type CreatePointRuleRequest struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"` // fixed / percentage / per_amount / tiered
	Value          decimal.Decimal `json:"value"`
	MinAmount      decimal.Decimal `json:"min_amount"`
	BranchID       *uint           `json:"branch_id"`
	CategoryID     *uint           `json:"category_id"`
	StartHour      *int            `json:"start_hour"`
	EndHour        *int            `json:"end_hour"`
	DaysOfWeek     string          `json:"days_of_week"`
	ValidFrom      *string         `json:"valid_from"`  // "YYYY-MM-DD"
	ValidUntil     *string         `json:"valid_until"` // "YYYY-MM-DD"
	Priority       int             `json:"priority"`
	OrganizationID *uint           `json:"organization_id"` // super_admin için zorunlu
}

type UpdatePointRuleRequest struct {
	IsActive *bool `json:"is_active"`
	Priority *int  `json:"priority"`
}

type PointRuleResponse struct {
	ID             uint            `json:"id"`
	OrganizationID uint            `json:"organization_id"`
	BranchID       *uint           `json:"branch_id"`
	CategoryID     *uint           `json:"category_id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Value          decimal.Decimal `json:"value"`
	MinAmount      decimal.Decimal `json:"min_amount"`
	StartHour      *int            `json:"start_hour"`
	EndHour        *int            `json:"end_hour"`
	DaysOfWeek     string          `json:"days_of_week"`
	ValidFrom      *string         `json:"valid_from"`
	ValidUntil     *string         `json:"valid_until"`
	Priority       int             `json:"priority"`
	IsActive       bool            `json:"is_active"`
}

var validRuleTypes = map[models.PointRuleType]bool{
	models.PointRuleFixed:      true,
	models.PointRulePercentage: true,
	models.PointRulePerAmount:  true,
	models.PointRuleTiered:     true,
}

// POST /api/admin/point-rules
func CreatePointRuleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePointRuleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kural adı boş olamaz")
		}
		ruleType := models.PointRuleType(body.Type)
		if !validRuleTypes[ruleType] {
			return fiber.NewError(fiber.StatusBadRequest, "Kural tipi fixed, percentage, per_amount veya tiered olmalı")
		}
		if body.Value.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Kural değeri negatif olamaz")
		}

		orgID, err := resolveAdminOrganization(c, body.OrganizationID)
		if err != nil {
			return err
		}

		rule := models.PointRule{
			OrganizationID: orgID,
			BranchID:       body.BranchID,
			CategoryID:     body.CategoryID,
			Name:           body.Name,
			Type:           ruleType,
			Value:          body.Value,
			MinAmount:      body.MinAmount,
			StartHour:      body.StartHour,
			EndHour:        body.EndHour,
			DaysOfWeek:     body.DaysOfWeek,
			Priority:       body.Priority,
			IsActive:       true,
		}

		if body.ValidFrom != nil {
			d, err := time.Parse("2006-01-02", *body.ValidFrom)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "valid_from formatı 'YYYY-MM-DD' olmalı")
			}
			rule.ValidFrom = &d
		}
		if body.ValidUntil != nil {
			d, err := time.Parse("2006-01-02", *body.ValidUntil)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "valid_until formatı 'YYYY-MM-DD' olmalı")
			}
			rule.ValidUntil = &d
		}

		if err := database.DB.Create(&rule).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Puan kuralı oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toPointRuleResponse(rule))
	}
}

// GET /api/admin/point-rules?organization_id=...
func ListPointRulesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var bodyOrg *uint
		if oidStr := c.Query("organization_id"); oidStr != "" {
			var oid uint
			if _, err := fmt.Sscan(oidStr, &oid); err != nil || oid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "organization_id geçersiz")
			}
			bodyOrg = &oid
		}

		orgID, err := resolveAdminOrganization(c, bodyOrg)
		if err != nil {
			return err
		}

		var rules []models.PointRule
		if err := database.DB.
			Where("organization_id = ?", orgID).
			Order("priority desc, id asc").
			Find(&rules).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Puan kuralları listelenemedi")
		}

		res := make([]PointRuleResponse, 0, len(rules))
		for _, r := range rules {
			res = append(res, toPointRuleResponse(r))
		}

		return c.JSON(res)
	}
}

// PUT /api/admin/point-rules/:id
func UpdatePointRuleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rule models.PointRule
		if err := database.DB.First(&rule, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Puan kuralı bulunamadı")
		}

		var body UpdatePointRuleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.IsActive != nil {
			rule.IsActive = *body.IsActive
		}
		if body.Priority != nil {
			rule.Priority = *body.Priority
		}

		if err := database.DB.Save(&rule).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Puan kuralı güncellenemedi")
		}

		return c.JSON(toPointRuleResponse(rule))
	}
}

func toPointRuleResponse(r models.PointRule) PointRuleResponse {
	resp := PointRuleResponse{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		BranchID:       r.BranchID,
		CategoryID:     r.CategoryID,
		Name:           r.Name,
		Type:           string(r.Type),
		Value:          r.Value,
		MinAmount:      r.MinAmount,
		StartHour:      r.StartHour,
		EndHour:        r.EndHour,
		DaysOfWeek:     r.DaysOfWeek,
		Priority:       r.Priority,
		IsActive:       r.IsActive,
	}
	if r.ValidFrom != nil {
		s := r.ValidFrom.Format("2006-01-02")
		resp.ValidFrom = &s
	}
	if r.ValidUntil != nil {
		s := r.ValidUntil.Format("2006-01-02")
		resp.ValidUntil = &s
	}
	return resp
}

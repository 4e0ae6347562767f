package audit

import (
	"fmt"

	"sadakat-backend/internal/auth"
	"sadakat-backend/internal/database"
	"sadakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID             uint               `json:"id"`
	CreatedAt      string             `json:"created_at"`
	OrganizationID *uint              `json:"organization_id"`
	BranchID       *uint              `json:"branch_id"`
	UserID         uint               `json:"user_id"`
	UserName       string             `json:"user_name"`
	EntityType     string             `json:"entity_type"`
	EntityID       uint               `json:"entity_id"`
	Action         models.AuditAction `json:"action"`
	Description    string             `json:"description"`
}

// GET /api/audit-logs?entity_type=purchase&entity_id=1&branch_id=1
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(auth.CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
		}

		dbq := database.DB.Model(&models.AuditLog{})

		// Super admin dışındakiler sadece kendi organizasyonunu görür
		if role != models.RoleSuperAdmin {
			orgVal := c.Locals(auth.CtxOrganizationIDKey)
			orgPtr, ok := orgVal.(*uint)
			if !ok || orgPtr == nil {
				return fiber.NewError(fiber.StatusForbidden, "Organizasyon bilgisi bulunamadı")
			}
			dbq = dbq.Where("organization_id = ?", *orgPtr)
		}

		if bidStr := c.Query("branch_id"); bidStr != "" {
			var bid uint
			if _, err := fmt.Sscan(bidStr, &bid); err == nil && bid > 0 {
				dbq = dbq.Where("branch_id = ?", bid)
			}
		}
		if entityType := c.Query("entity_type"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if eidStr := c.Query("entity_id"); eidStr != "" {
			var eid uint
			if _, err := fmt.Sscan(eidStr, &eid); err == nil && eid > 0 {
				dbq = dbq.Where("entity_id = ?", eid)
			}
		}

		var rows []models.AuditLog
		if err := dbq.Order("created_at desc, id desc").Limit(200).Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Audit loglar listelenemedi")
		}

		resp := make([]AuditLogResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, AuditLogResponse{
				ID:             r.ID,
				CreatedAt:      r.CreatedAt.Format("2006-01-02 15:04:05"),
				OrganizationID: r.OrganizationID,
				BranchID:       r.BranchID,
				UserID:         r.UserID,
				UserName:       r.UserName,
				EntityType:     r.EntityType,
				EntityID:       r.EntityID,
				Action:         r.Action,
				Description:    r.Description,
			})
		}

		return c.JSON(resp)
	}
}

package beneficiary

import (
	"fmt"
	"strings"

	"sadakat-backend/internal/auth"
	"sadakat-backend/internal/cache"
	"sadakat-backend/internal/config"
	"sadakat-backend/internal/database"
	"sadakat-backend/internal/logger"
	"sadakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateBeneficiaryRequest struct {
	FullName       string `json:"full_name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	OrganizationID *uint  `json:"organization_id"` // super_admin için zorunlu
}

type BeneficiaryResponse struct {
	ID              uint   `json:"id"`
	OrganizationID  uint   `json:"organization_id"`
	FullName        string `json:"full_name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	AvailablePoints int64  `json:"available_points"`
	CreatedAt       string `json:"created_at"`
}

// resolveOrganizationID - super_admin body/query'den, diğer roller token'dan
func resolveOrganizationID(c *fiber.Ctx, bodyOrgID *uint) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}

	if role != models.RoleSuperAdmin {
		orgVal := c.Locals(auth.CtxOrganizationIDKey)
		orgPtr, ok := orgVal.(*uint)
		if !ok || orgPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Organizasyon bilgisi bulunamadı")
		}
		return *orgPtr, nil
	}

	if bodyOrgID != nil {
		return *bodyOrgID, nil
	}
	oidStr := c.Query("organization_id")
	if oidStr == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, "organization_id zorunlu")
	}
	var oid uint
	if _, err := fmt.Sscan(oidStr, &oid); err != nil || oid == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "organization_id geçersiz")
	}
	return oid, nil
}

func toResponse(b models.Beneficiary) BeneficiaryResponse {
	return BeneficiaryResponse{
		ID:              b.ID,
		OrganizationID:  b.OrganizationID,
		FullName:        b.FullName,
		Phone:           b.Phone,
		Email:           b.Email,
		AvailablePoints: b.AvailablePoints,
		CreatedAt:       b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/beneficiaries
func CreateBeneficiaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBeneficiaryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.FullName = strings.TrimSpace(body.FullName)
		if body.FullName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Üye adı boş olamaz")
		}

		orgID, err := resolveOrganizationID(c, body.OrganizationID)
		if err != nil {
			return err
		}

		b := models.Beneficiary{
			OrganizationID: orgID,
			FullName:       body.FullName,
			Phone:          strings.TrimSpace(body.Phone),
			Email:          strings.TrimSpace(strings.ToLower(body.Email)),
		}

		if err := database.DB.Create(&b).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üye oluşturulamadı")
		}

		if err := cache.Remove(cache.BeneficiaryListKey(orgID)); err != nil {
			logger.L.Warnf("Üye listesi cache'i temizlenemedi: %v", err)
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(b))
	}
}

// GET /api/beneficiaries?organization_id=...
// Liste organizasyon bazlı cache'lenir; alışveriş ve itfa kayıtları
// cache'i geçersiz kılar (bakiye görünümü bayatlamasın).
func ListBeneficiariesHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orgID, err := resolveOrganizationID(c, nil)
		if err != nil {
			return err
		}

		key := cache.BeneficiaryListKey(orgID)

		var cached []BeneficiaryResponse
		if hit, err := cache.GetObject(key, &cached); err != nil {
			logger.L.Warnf("Üye listesi cache okunamadı: %v", err)
		} else if hit {
			return c.JSON(cached)
		}

		var rows []models.Beneficiary
		if err := database.DB.
			Where("organization_id = ?", orgID).
			Order("full_name asc").
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üyeler listelenemedi")
		}

		resp := make([]BeneficiaryResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, toResponse(r))
		}

		if err := cache.SetObject(key, resp, cfg.CacheLifespan); err != nil {
			logger.L.Warnf("Üye listesi cache'e yazılamadı: %v", err)
		}

		return c.JSON(resp)
	}
}

// GET /api/beneficiaries/:id
func GetBeneficiaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var b models.Beneficiary
		if err := database.DB.First(&b, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Üye bulunamadı")
		}

		return c.JSON(toResponse(b))
	}
}

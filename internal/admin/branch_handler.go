package admin

import (
	"fmt"
	"strings"

	"sadakat-backend/internal/auth"
	"sadakat-backend/internal/database"
	"sadakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type BranchResponse struct {
	ID             uint   `json:"id"`
	OrganizationID uint   `json:"organization_id"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	CreatedAt      string `json:"created_at"`
}

type CreateBranchRequest struct {
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Phone          *string `json:"phone"`           // Opsiyonel
	OrganizationID *uint   `json:"organization_id"` // super_admin için zorunlu
}

type UpdateBranchRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

type CreateCashierRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// resolveAdminOrganization - super_admin body'den, org_admin token'dan
func resolveAdminOrganization(c *fiber.Ctx, bodyOrgID *uint) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}

	if role == models.RoleOrgAdmin {
		orgVal := c.Locals(auth.CtxOrganizationIDKey)
		orgPtr, ok := orgVal.(*uint)
		if !ok || orgPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Organizasyon bilgisi bulunamadı")
		}
		return *orgPtr, nil
	}

	// super_admin
	if bodyOrgID == nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "organization_id zorunlu")
	}
	return *bodyOrgID, nil
}

// findBranchInScope - şubeyi bulur; org_admin sadece kendi organizasyonundakini görebilir
func findBranchInScope(c *fiber.Ctx, id string) (*models.Branch, error) {
	var branch models.Branch
	if err := database.DB.First(&branch, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
	}

	roleVal := c.Locals(auth.CtxUserRoleKey)
	if role, ok := roleVal.(models.UserRole); ok && role == models.RoleOrgAdmin {
		orgVal := c.Locals(auth.CtxOrganizationIDKey)
		orgPtr, ok := orgVal.(*uint)
		if !ok || orgPtr == nil || branch.OrganizationID != *orgPtr {
			return nil, fiber.NewError(fiber.StatusForbidden, "Bu şube için yetkiniz yok")
		}
	}

	return &branch, nil
}

// ----------------------------------------
// ŞUBE CRUD
// ----------------------------------------

func CreateBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Şube adı boş olamaz")
		}

		orgID, err := resolveAdminOrganization(c, body.OrganizationID)
		if err != nil {
			return err
		}

		var org models.Organization
		if err := database.DB.First(&org, "id = ?", orgID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Organizasyon bulunamadı")
		}

		branch := models.Branch{
			OrganizationID: orgID,
			Name:           body.Name,
			Address:        body.Address,
		}
		if body.Phone != nil {
			branch.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Create(&branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şube oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toBranchResponse(branch))
	}
}

func ListBranchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Branch{})

		roleVal := c.Locals(auth.CtxUserRoleKey)
		if role, ok := roleVal.(models.UserRole); ok && role != models.RoleSuperAdmin {
			orgVal := c.Locals(auth.CtxOrganizationIDKey)
			orgPtr, ok := orgVal.(*uint)
			if !ok || orgPtr == nil {
				return fiber.NewError(fiber.StatusForbidden, "Organizasyon bilgisi bulunamadı")
			}
			dbq = dbq.Where("organization_id = ?", *orgPtr)
		} else if oidStr := c.Query("organization_id"); oidStr != "" {
			var oid uint
			if _, err := fmt.Sscan(oidStr, &oid); err != nil || oid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "organization_id geçersiz")
			}
			dbq = dbq.Where("organization_id = ?", oid)
		}

		var branches []models.Branch
		if err := dbq.Order("name asc").Find(&branches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şubeler listelenemedi")
		}

		res := make([]BranchResponse, 0, len(branches))
		for _, b := range branches {
			res = append(res, toBranchResponse(b))
		}

		return c.JSON(res)
	}
}

func GetBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branch, err := findBranchInScope(c, c.Params("id"))
		if err != nil {
			return err
		}

		return c.JSON(toBranchResponse(*branch))
	}
}

func UpdateBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branch, err := findBranchInScope(c, c.Params("id"))
		if err != nil {
			return err
		}

		var body UpdateBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Şube adı boş olamaz")
			}
			branch.Name = name
		}
		if body.Address != nil {
			branch.Address = *body.Address
		}
		if body.Phone != nil {
			branch.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Save(branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şube güncellenemedi")
		}

		return c.JSON(toBranchResponse(*branch))
	}
}

func DeleteBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branch, err := findBranchInScope(c, c.Params("id"))
		if err != nil {
			return err
		}

		// Alışveriş kaydı olan şube silinemez (kayıtlar değiştirilemezdir)
		var purchaseCount int64
		database.DB.Model(&models.Purchase{}).Where("branch_id = ?", branch.ID).Count(&purchaseCount)
		if purchaseCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Alışveriş kaydı olan şube silinemez")
		}

		if err := database.DB.Delete(branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şube silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/admin/branches/:id/cashiers
func CreateBranchCashierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branch, err := findBranchInScope(c, c.Params("id"))
		if err != nil {
			return err
		}

		var body CreateCashierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, email ve şifre zorunlu")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		user := models.User{
			OrganizationID: &branch.OrganizationID,
			BranchID:       &branch.ID,
			Name:           body.Name,
			Email:          body.Email,
			PasswordHash:   string(hash),
			Role:           models.RoleCashier,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kasiyer oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role,
			"branch_id": user.BranchID,
		})
	}
}

func toBranchResponse(b models.Branch) BranchResponse {
	return BranchResponse{
		ID:             b.ID,
		OrganizationID: b.OrganizationID,
		Name:           b.Name,
		Address:        b.Address,
		Phone:          b.Phone,
		CreatedAt:      b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

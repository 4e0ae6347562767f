package admin

import (
	"strings"

	"sadakat-backend/internal/database"
	"sadakat-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type OrganizationResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	Phone        string `json:"phone"`
	CreatedAt    string `json:"created_at"`
}

type CreateOrganizationRequest struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	Phone        string `json:"phone"`
}

// ----------------------------------------
// ORGANİZASYON CRUD (super_admin)
// ----------------------------------------

func CreateOrganizationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrganizationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Organizasyon adı boş olamaz")
		}

		org := models.Organization{
			Name:         body.Name,
			ContactEmail: strings.TrimSpace(strings.ToLower(body.ContactEmail)),
			Phone:        strings.TrimSpace(body.Phone),
		}

		if err := database.DB.Create(&org).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Organizasyon oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(OrganizationResponse{
			ID:           org.ID,
			Name:         org.Name,
			ContactEmail: org.ContactEmail,
			Phone:        org.Phone,
			CreatedAt:    org.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

func ListOrganizationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var orgs []models.Organization
		if err := database.DB.Find(&orgs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Organizasyonlar listelenemedi")
		}

		res := make([]OrganizationResponse, 0, len(orgs))
		for _, o := range orgs {
			res = append(res, OrganizationResponse{
				ID:           o.ID,
				Name:         o.Name,
				ContactEmail: o.ContactEmail,
				Phone:        o.Phone,
				CreatedAt:    o.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(res)
	}
}

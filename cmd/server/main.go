package main

import (
	"log"
	"strings"

	"sadakat-backend/internal/admin"
	"sadakat-backend/internal/audit"
	"sadakat-backend/internal/auth"
	"sadakat-backend/internal/beneficiary"
	"sadakat-backend/internal/cache"
	"sadakat-backend/internal/config"
	"sadakat-backend/internal/database"
	"sadakat-backend/internal/logger"
	"sadakat-backend/internal/models"
	"sadakat-backend/internal/purchase"
	"sadakat-backend/internal/redemption"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/shopspring/decimal"
)

func main() {
	// Tutarlar JSON'da string değil sayı olarak gitsin
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.Load()
	database.Init(cfg)
	cache.Connect(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"success": false,
					"error":   e.Message,
				})
			}
			logger.L.Errorf("Beklenmeyen hata: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin, models.RoleOrgAdmin))

	// Organizasyon yönetimi (sadece super admin)
	superRoutes := adminRoutes.Group("")
	superRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))
	superRoutes.Post("/organizations", admin.CreateOrganizationHandler())
	superRoutes.Get("/organizations", admin.ListOrganizationsHandler())

	// Şube yönetimi
	adminRoutes.Post("/branches", admin.CreateBranchHandler())
	adminRoutes.Get("/branches", admin.ListBranchesHandler())
	adminRoutes.Get("/branches/:id", admin.GetBranchHandler())
	adminRoutes.Put("/branches/:id", admin.UpdateBranchHandler())
	adminRoutes.Delete("/branches/:id", admin.DeleteBranchHandler())
	adminRoutes.Post("/branches/:id/cashiers", admin.CreateBranchCashierHandler())

	// Puan kuralları
	adminRoutes.Post("/point-rules", admin.CreatePointRuleHandler())
	adminRoutes.Get("/point-rules", admin.ListPointRulesHandler())
	adminRoutes.Put("/point-rules/:id", admin.UpdatePointRuleHandler())

	// Üyeler
	protected.Post("/beneficiaries", beneficiary.CreateBeneficiaryHandler())
	protected.Get("/beneficiaries", beneficiary.ListBeneficiariesHandler(cfg))
	protected.Get("/beneficiaries/:id", beneficiary.GetBeneficiaryHandler())
	protected.Get("/beneficiaries/:id/purchases", purchase.BeneficiaryPurchasesHandler())

	// Alışverişler (puan kazanımı)
	protected.Post("/purchases", purchase.CreatePurchaseHandler())
	protected.Get("/purchases", purchase.ListPurchasesHandler())
	protected.Get("/purchases/:id", purchase.GetPurchaseHandler())

	// Puan itfaları
	protected.Post("/redemptions", redemption.CreateRedemptionHandler())
	protected.Get("/redemptions", redemption.ListRedemptionsHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}

package purchase

import (
	"fmt"
	"time"

	"sadakat-backend/internal/audit"
	"sadakat-backend/internal/auth"
	"sadakat-backend/internal/cache"
	"sadakat-backend/internal/database"
	"sadakat-backend/internal/logger"
	"sadakat-backend/internal/models"
	"sadakat-backend/internal/points"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreatePurchaseRequest struct {
	BeneficiaryID uint                  `json:"beneficiary_id"`
	CashierID     uint                  `json:"cashier_id"` // boşsa token'daki kullanıcı
	BranchID      *uint                 `json:"branch_id"`  // kasiyer için token'dan çözülür
	Items         []PurchaseItemRequest `json:"items"`
	Notes         string                `json:"notes"`
}

type PurchaseItemRequest struct {
	ItemName  string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type PurchaseItemResponse struct {
	ID           uint            `json:"id"`
	ItemName     string          `json:"item_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	PointsEarned int64           `json:"points_earned"`
}

type PurchaseResponse struct {
	ID              uint                   `json:"id"`
	PurchaseNumber  string                 `json:"purchase_number"`
	BeneficiaryID   uint                   `json:"beneficiary_id"`
	BeneficiaryName string                 `json:"beneficiary_name,omitempty"`
	CashierID       uint                   `json:"cashier_id"`
	CashierName     string                 `json:"cashier_name,omitempty"`
	BranchID        uint                   `json:"branch_id"`
	BranchName      string                 `json:"branch_name,omitempty"`
	OrganizationID  uint                   `json:"organization_id,omitempty"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	PointsEarned    int64                  `json:"points_earned"`
	Notes           string                 `json:"notes,omitempty"`
	PurchaseDate    string                 `json:"purchase_date"`
	Items           []PurchaseItemResponse `json:"items"`
}

// -------------------------
// Yardımcı Fonksiyonlar
// -------------------------

func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return userID, user.Name, nil
}

func resolveBranchIDFromBodyOrRole(c *fiber.Ctx, bodyBranchID *uint) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}

	if role == models.RoleCashier {
		bVal := c.Locals(auth.CtxBranchIDKey)
		bPtr, ok := bVal.(*uint)
		if !ok || bPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Şube bilgisi bulunamadı")
		}
		return *bPtr, nil
	}

	// org_admin / super_admin
	if bodyBranchID == nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "branch_id zorunlu")
	}
	return *bodyBranchID, nil
}

// httpError - OpError'ı HTTP durum koduna çevirir. Çağıran UI katmanı sadece
// success alanına bakar, exception yakalaması gerekmez.
func httpError(e *OpError) *fiber.Error {
	switch e.Kind {
	case ErrValidation:
		return fiber.NewError(fiber.StatusBadRequest, e.Message)
	case ErrNotFound:
		return fiber.NewError(fiber.StatusNotFound, e.Message)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, e.Message)
	}
}

func toPurchaseResponse(p models.Purchase) PurchaseResponse {
	items := make([]PurchaseItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, PurchaseItemResponse{
			ID:           it.ID,
			ItemName:     it.ItemName,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			Subtotal:     it.Subtotal,
			PointsEarned: it.PointsEarned,
		})
	}

	return PurchaseResponse{
		ID:              p.ID,
		PurchaseNumber:  p.PurchaseNumber,
		BeneficiaryID:   p.BeneficiaryID,
		BeneficiaryName: p.Beneficiary.FullName,
		CashierID:       p.CashierID,
		CashierName:     p.Cashier.Name,
		BranchID:        p.BranchID,
		BranchName:      p.Branch.Name,
		OrganizationID:  p.Branch.OrganizationID,
		TotalAmount:     p.TotalAmount,
		PointsEarned:    p.PointsEarned,
		Notes:           p.Notes,
		PurchaseDate:    p.PurchaseDate.Format("2006-01-02 15:04:05"),
		Items:           items,
	}
}

// -------------------------
// Purchase Handlers
// -------------------------

// POST /api/purchases
func CreatePurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePurchaseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		branchID, err := resolveBranchIDFromBodyOrRole(c, body.BranchID)
		if err != nil {
			return err
		}

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		cashierID := body.CashierID
		if cashierID == 0 {
			cashierID = userID
		}

		items := make([]ItemInput, 0, len(body.Items))
		for _, it := range body.Items {
			items = append(items, ItemInput{
				Name:      it.ItemName,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			})
		}

		svc := NewService(NewGormStore(database.DB), points.NewDBEvaluator(database.DB))
		result, opError := svc.Create(CreateInput{
			BeneficiaryID: body.BeneficiaryID,
			CashierID:     cashierID,
			BranchID:      branchID,
			Items:         items,
			Notes:         body.Notes,
		})
		if opError != nil {
			return httpError(opError)
		}

		// Liste cache'lerini temizle (best effort)
		if err := cache.Remove(
			cache.PurchaseListKey(result.OrganizationID),
			cache.BeneficiaryListKey(result.OrganizationID),
		); err != nil {
			logger.L.Warnf("Alışveriş sonrası cache temizlenemedi: %v", err)
		}

		// Audit log yaz
		if logErr := audit.WriteLog(audit.LogOptions{
			OrganizationID: &result.OrganizationID,
			BranchID:       &branchID,
			UserID:         userID,
			UserName:       userName,
			EntityType:     "purchase",
			EntityID:       result.PurchaseID,
			Action:         models.AuditActionCreate,
			Description:    fmt.Sprintf("Alışveriş eklendi: %s - %s TL - %d puan", result.PurchaseNumber, result.TotalAmount.StringFixed(2), result.PointsEarned),
			After:          result,
		}); logErr != nil {
			logger.LogError("purchase", "CreatePurchaseHandler", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success":                 true,
			"purchase_id":             result.PurchaseID,
			"purchase_number":         result.PurchaseNumber,
			"total_amount":            result.TotalAmount,
			"points_earned":           result.PointsEarned,
			"beneficiary_new_balance": result.BeneficiaryNewBalance,
		})
	}
}

// GET /api/purchases?branch_id=...&organization_id=...&start_date=...&end_date=...
func ListPurchasesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var f ListFilters

		if bidStr := c.Query("branch_id"); bidStr != "" {
			var bid uint
			if _, err := fmt.Sscan(bidStr, &bid); err != nil || bid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "branch_id geçersiz")
			}
			f.BranchID = &bid
		}

		if oidStr := c.Query("organization_id"); oidStr != "" {
			var oid uint
			if _, err := fmt.Sscan(oidStr, &oid); err != nil || oid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "organization_id geçersiz")
			}
			f.OrganizationID = &oid
		}

		if fromStr := c.Query("start_date"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "start_date geçersiz")
			}
			f.StartDate = &from
		}

		if toStr := c.Query("end_date"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "end_date geçersiz")
			}
			f.EndDate = &to
		}

		rows, err := AllPurchases(database.DB, f, auth.ActiveOrganization(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alışverişler listelenemedi")
		}

		resp := make([]PurchaseResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, toPurchaseResponse(r))
		}

		return c.JSON(fiber.Map{"success": true, "data": resp})
	}
}

// GET /api/purchases/:id
func GetPurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		p, opError := PurchaseByID(database.DB, id)
		if opError != nil {
			return httpError(opError)
		}

		return c.JSON(fiber.Map{"success": true, "data": toPurchaseResponse(*p)})
	}
}

// GET /api/beneficiaries/:id/purchases
func BeneficiaryPurchasesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		rows, err := BeneficiaryPurchases(database.DB, id)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üye alışverişleri listelenemedi")
		}

		resp := make([]PurchaseResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, toPurchaseResponse(r))
		}

		return c.JSON(fiber.Map{"success": true, "data": resp})
	}
}

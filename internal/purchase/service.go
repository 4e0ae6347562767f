package purchase

import (
	"errors"
	"strings"
	"time"

	"sadakat-backend/internal/logger"
	"sadakat-backend/internal/models"
	"sadakat-backend/internal/points"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store - alışveriş akışının veritabanı yüzeyi. Üretimde GormStore kullanılır,
// testlerde sahte implementasyon takılır.
type Store interface {
	GetBranch(id uint) (*models.Branch, error)
	CreatePurchase(p *models.Purchase) error
	CreatePurchaseItems(items []models.PurchaseItem) error
	BeneficiaryBalance(id uint) (int64, error)
}

// Service - kasiyerin sepetini kalıcı, puanı hesaplanmış bir alışveriş
// kaydına çeviren akış.
//
// DİKKAT: header insert ile item insert tek transaction içinde DEĞİLDİR.
// Item yazması başarısız olursa header kaydı veritabanında kalır ve işlem
// çağırana hata olarak raporlanır. Bu bilinçli olarak korunan bir davranıştır;
// telafi silmesi veya retry yapılmaz.
type Service struct {
	store     Store
	evaluator points.Evaluator
}

func NewService(store Store, evaluator points.Evaluator) *Service {
	return &Service{store: store, evaluator: evaluator}
}

type ItemInput struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

type CreateInput struct {
	BeneficiaryID uint
	CashierID     uint
	BranchID      uint
	Items         []ItemInput
	Notes         string
}

type CreateResult struct {
	PurchaseID            uint
	PurchaseNumber        string
	OrganizationID        uint // cache invalidation ve audit için
	TotalAmount           decimal.Decimal
	PointsEarned          int64
	BeneficiaryNewBalance int64 // okunamazsa 0
}

// Create - alışverişi kaydeder. Sıra: doğrulama -> şube/organizasyon çözümü ->
// puan hesabı -> header insert -> item'ların toplu insert'i -> bakiye okuma.
// Doğrulama hatalarında hiçbir yazma yapılmaz.
func (s *Service) Create(in CreateInput) (*CreateResult, *OpError) {
	if in.BeneficiaryID == 0 || in.CashierID == 0 || in.BranchID == 0 {
		return nil, opErr(ErrValidation, "Üye, kasiyer ve şube bilgisi zorunlu", nil)
	}
	if len(in.Items) == 0 {
		return nil, opErr(ErrValidation, "En az bir ürün girilmelidir", nil)
	}
	for _, item := range in.Items {
		if strings.TrimSpace(item.Name) == "" || item.Quantity <= 0 || item.UnitPrice.IsNegative() {
			return nil, opErr(ErrValidation, "Geçersiz ürün satırı: isim, adet ve birim fiyat kontrol edin", nil)
		}
	}

	// Toplam tutar: adet * birim fiyat toplamı, decimal hassasiyetinde
	totalAmount := decimal.Zero
	for _, item := range in.Items {
		totalAmount = totalAmount.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	branch, err := s.store.GetBranch(in.BranchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opErr(ErrNotFound, "Şube bulunamadı", err)
		}
		return nil, opErr(ErrUnexpected, "Şube sorgulanamadı", err)
	}

	now := time.Now()

	// Puan hesabı veritabanındaki opak fonksiyona delege edilir.
	// Kategori boyutu alışveriş genelinde gönderilmez (satırlar serbest metin).
	ptsResult, err := s.evaluator.Calculate(totalAmount, branch.OrganizationID, &in.BranchID, nil, now)
	if err != nil {
		return nil, opErr(ErrCalculation, "Puan hesaplanamadı", err)
	}
	var pointsEarned int64
	if ptsResult != nil && *ptsResult > 0 {
		pointsEarned = *ptsResult
	}

	p := models.Purchase{
		BeneficiaryID: in.BeneficiaryID,
		CashierID:     in.CashierID,
		BranchID:      in.BranchID,
		TotalAmount:   totalAmount,
		PointsEarned:  pointsEarned,
		Notes:         in.Notes,
		PurchaseDate:  now,
	}
	if err := s.store.CreatePurchase(&p); err != nil {
		return nil, opErr(ErrPersistence, "Alışveriş kaydedilemedi", err)
	}

	items := buildItems(p.ID, in.Items, pointsEarned, totalAmount)
	if err := s.store.CreatePurchaseItems(items); err != nil {
		// Header zaten commit edildi; satırsız kalan kayıt bilinçli olarak
		// silinmez, durum loglanır ve işlem hata olarak raporlanır.
		logger.L.Warnf("Alışveriş %d header'ı kaydedildi ama ürün satırları yazılamadı: %v", p.ID, err)
		return nil, opErr(ErrPersistence, "Alışveriş ürünleri kaydedilemedi", err)
	}

	// Bakiye okuma best-effort: puanlar zaten işlendi, hata işlemi bozmaz.
	var newBalance int64
	if bal, err := s.store.BeneficiaryBalance(in.BeneficiaryID); err != nil {
		logger.LogError("purchase", "Create", err)
	} else {
		newBalance = bal
	}

	return &CreateResult{
		PurchaseID:            p.ID,
		PurchaseNumber:        p.PurchaseNumber,
		OrganizationID:        branch.OrganizationID,
		TotalAmount:           totalAmount,
		PointsEarned:          pointsEarned,
		BeneficiaryNewBalance: newBalance,
	}, nil
}

// buildItems - kazanılan puanı satırlara tutar payları oranında dağıtır.
// Pay hesabı aşağı yuvarlanır (floor); artan kesirli puan header'da kalır,
// satır toplamı asla header puanını aşamaz.
func buildItems(purchaseID uint, inputs []ItemInput, pointsEarned int64, totalAmount decimal.Decimal) []models.PurchaseItem {
	items := make([]models.PurchaseItem, 0, len(inputs))
	for _, in := range inputs {
		subtotal := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))

		var itemPoints int64
		if pointsEarned > 0 && totalAmount.IsPositive() {
			// QuoRem ile tam bölme: floor(subtotal * puan / toplam),
			// Div'in yuvarlama hassasiyetine bağlı kalmadan.
			q, _ := subtotal.Mul(decimal.NewFromInt(pointsEarned)).QuoRem(totalAmount, 0)
			itemPoints = q.IntPart()
		}

		items = append(items, models.PurchaseItem{
			PurchaseID:   purchaseID,
			ItemName:     strings.TrimSpace(in.Name),
			Quantity:     in.Quantity,
			UnitPrice:    in.UnitPrice,
			Subtotal:     subtotal,
			PointsEarned: itemPoints,
		})
	}
	return items
}

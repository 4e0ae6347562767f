package purchase

import (
	"fmt"
	"sync"

	"sadakat-backend/internal/cache"
	"sadakat-backend/internal/models"

	"gorm.io/gorm"
)

// GormStore - Store'un üretim implementasyonu. Alışveriş numarasını da bu
// katman atar: iş akışı numara üretmez, "store atar" sözleşmesi burada yaşar.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetBranch(id uint) (*models.Branch, error) {
	var branch models.Branch
	if err := s.db.First(&branch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func (s *GormStore) CreatePurchase(p *models.Purchase) error {
	if p.PurchaseNumber == "" {
		seq, err := s.nextSequence()
		if err != nil {
			return err
		}
		p.PurchaseNumber = fmt.Sprintf("ALV-%06d", seq)
	}
	return s.db.Create(p).Error
}

func (s *GormStore) CreatePurchaseItems(items []models.PurchaseItem) error {
	if len(items) == 0 {
		return nil
	}
	return s.db.Create(&items).Error
}

func (s *GormStore) BeneficiaryBalance(id uint) (int64, error) {
	var beneficiary models.Beneficiary
	if err := s.db.Select("available_points").First(&beneficiary, "id = ?", id).Error; err != nil {
		return 0, err
	}
	return beneficiary.AvailablePoints, nil
}

var seqMutex sync.Mutex

// nextSequence - Redis sayacından sıradaki alışveriş numarasını alır.
// Sayaç tazeyse (ilk INCR 1 dönerse) veritabanındaki en büyük numaradan
// tohumlanır. Redis yoksa doğrudan veritabanına düşülür.
func (s *GormStore) nextSequence() (int64, error) {
	seqMutex.Lock()
	defer seqMutex.Unlock()

	if n, ok := cache.Incr(cache.PurchaseSeqKey); ok {
		if n == 1 {
			dbMax, err := s.maxSequence()
			if err != nil {
				return 0, err
			}
			n = dbMax + 1
			if err := cache.SetValue(cache.PurchaseSeqKey, n); err != nil {
				return 0, err
			}
		}
		return n, nil
	}

	dbMax, err := s.maxSequence()
	if err != nil {
		return 0, err
	}
	return dbMax + 1, nil
}

// maxSequence - "ALV-000123" formatındaki numaraların sayısal kısmının en büyüğü
func (s *GormStore) maxSequence() (int64, error) {
	var dbMax *int64
	err := s.db.Model(&models.Purchase{}).
		Select("MAX(CAST(SUBSTRING(purchase_number FROM 5) AS BIGINT))").
		Scan(&dbMax).Error
	if err != nil {
		return 0, err
	}
	if dbMax == nil {
		return 0, nil
	}
	return *dbMax, nil
}

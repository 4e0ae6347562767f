// Package points - puan hesaplama servisine açılan kapı.
//
// Kuralların kendisi (sabit/yüzde/kademeli, saat penceresi, öncelik...)
// veritabanındaki calculate_points fonksiyonunda değerlendirilir. Bu paket
// fonksiyonu opak bir sözleşme olarak çağırır: (tutar, organizasyon, şube,
// kategori, zaman) -> puan. Testlerde sahte bir Evaluator takılabilir.
package points

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Evaluator interface {
	// Calculate - kazanılacak puanı hesaplar. nil sonuç "uygun kural yok,
	// sıfır puan" demektir; hata ise çağıranın işlemi iptal etmesi gereken
	// bir durumdur.
	Calculate(amount decimal.Decimal, organizationID uint, branchID, categoryID *uint, at time.Time) (*int64, error)
}

// DBEvaluator - calculate_points veritabanı fonksiyonunu çağıran üretim
// implementasyonu.
type DBEvaluator struct {
	db *gorm.DB
}

func NewDBEvaluator(db *gorm.DB) *DBEvaluator {
	return &DBEvaluator{db: db}
}

func (e *DBEvaluator) Calculate(amount decimal.Decimal, organizationID uint, branchID, categoryID *uint, at time.Time) (*int64, error) {
	var pts *int64
	err := e.db.
		Raw("SELECT calculate_points(?, ?, ?, ?, ?)", amount, organizationID, branchID, categoryID, at).
		Scan(&pts).Error
	if err != nil {
		return nil, fmt.Errorf("calculate_points çağrısı başarısız: %w", err)
	}
	return pts, nil
}

package database

import (
	"log"

	"sadakat-backend/internal/config"
	"sadakat-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Organization{},
		&models.Branch{},
		&models.User{},
		&models.Beneficiary{},
		&models.Category{},
		&models.PointRule{},
		&models.Purchase{},
		&models.PurchaseItem{},
		&models.Redemption{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	// Puan hesaplama veritabanı fonksiyonu uygulama dışında yönetiliyor
	// (migration SQL'leri ile kurulur). Var mı diye kontrol et, yoksa uyar.
	var fnExists bool
	DB.Raw("SELECT EXISTS (SELECT 1 FROM pg_proc WHERE proname = 'calculate_points')").Scan(&fnExists)
	if !fnExists {
		log.Println("[WARN] calculate_points fonksiyonu veritabanında bulunamadı! Alışveriş kayıtları puan hesaplayamayacak.")
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

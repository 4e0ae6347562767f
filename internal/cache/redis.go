package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sadakat-backend/internal/config"
	"sadakat-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

var (
	rdb *redis.Client
	ctx = context.Background()
)

// Connect - Redis bağlantısını kurar. Bağlanamazsa uygulamayı durdurmaz,
// tüm cache fonksiyonları rdb == nil iken no-op çalışır.
func Connect(cfg *config.Config) {
	if cfg.RedisAddr == "" {
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: "",
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.L.Warnf("Redis bağlantısı kurulamadı (%s), cache devre dışı: %v", cfg.RedisAddr, err)
		return
	}

	rdb = client
	logger.L.Infof("Redis bağlantısı kuruldu: %s", cfg.RedisAddr)
}

// GetObject - key'deki JSON'u dest'e çözer. Cache boşsa (false, nil) döner.
func GetObject(key string, dest interface{}) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func SetObject(key string, obj interface{}, exp time.Duration) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, exp).Err()
}

func Remove(keys ...string) error {
	if rdb == nil || len(keys) == 0 {
		return nil
	}
	_, err := rdb.Del(ctx, keys...).Result()
	return err
}

// Incr - sayaç artırır. Redis yoksa (0, false) döner, çağıran DB'ye düşer.
func Incr(key string) (int64, bool) {
	if rdb == nil {
		return 0, false
	}
	n, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, false
	}
	return n, true
}

func SetValue(key string, value int64) error {
	if rdb == nil {
		return nil
	}
	return rdb.Set(ctx, key, value, 0).Err()
}

// -------------------------
// Cache Key'leri
// -------------------------

// Organizasyon bazlı alışveriş listesi cache'i
func PurchaseListKey(organizationID uint) string {
	return fmt.Sprintf("PurchaseList:%d", organizationID)
}

// Organizasyon bazlı üye listesi cache'i
func BeneficiaryListKey(organizationID uint) string {
	return fmt.Sprintf("BeneficiaryList:%d", organizationID)
}

// Alışveriş numarası sayacı
const PurchaseSeqKey = "PurchaseSeq"

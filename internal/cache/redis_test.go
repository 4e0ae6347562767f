package cache

import "testing"

// Redis bağlantısı kurulmadığında tüm cache fonksiyonları no-op çalışmalı;
// uygulama cache'siz de ayakta kalır.

func TestNilSafeGetObject(t *testing.T) {
	var dest []string
	hit, err := GetObject("PurchaseList:1", &dest)
	if err != nil {
		t.Fatalf("bağlantısız GetObject hata dönmemeli: %v", err)
	}
	if hit {
		t.Fatal("bağlantısız GetObject cache miss dönmeli")
	}
}

func TestNilSafeSetAndRemove(t *testing.T) {
	if err := SetObject("PurchaseList:1", []string{"x"}, 0); err != nil {
		t.Fatalf("bağlantısız SetObject hata dönmemeli: %v", err)
	}
	if err := Remove("PurchaseList:1", "BeneficiaryList:1"); err != nil {
		t.Fatalf("bağlantısız Remove hata dönmemeli: %v", err)
	}
	if err := Remove(); err != nil {
		t.Fatalf("boş key listesiyle Remove hata dönmemeli: %v", err)
	}
}

func TestNilSafeIncr(t *testing.T) {
	n, ok := Incr(PurchaseSeqKey)
	if ok || n != 0 {
		t.Fatalf("bağlantısız Incr (0, false) dönmeli: (%d, %v)", n, ok)
	}
}

func TestCacheKeys(t *testing.T) {
	if got := PurchaseListKey(7); got != "PurchaseList:7" {
		t.Fatalf("beklenmeyen key: %s", got)
	}
	if got := BeneficiaryListKey(42); got != "BeneficiaryList:42" {
		t.Fatalf("beklenmeyen key: %s", got)
	}
}

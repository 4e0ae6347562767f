package purchase

import (
	"testing"

	"sadakat-backend/internal/models"
)

func purchaseWithOrg(id uint, orgID uint) models.Purchase {
	return models.Purchase{
		ID:     id,
		Branch: models.Branch{ID: id, OrganizationID: orgID},
	}
}

func TestEffectiveOrganization(t *testing.T) {
	seven := uint(7)

	cases := []struct {
		name      string
		explicit  *uint
		activeOrg string
		wantID    uint
		wantOK    bool
	}{
		{"açık filtre", &seven, "", 7, true},
		{"açık filtre ambient'i ezer", &seven, "3", 7, true},
		{"ambient sayısal", nil, "7", 7, true},
		{"ambient sayısal değil", nil, "abc", 0, false},
		{"ikisi de yok", nil, "", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := effectiveOrganization(tc.explicit, tc.activeOrg)
			if ok != tc.wantOK || id != tc.wantID {
				t.Fatalf("(%d, %v) bekleniyordu, geldi (%d, %v)", tc.wantID, tc.wantOK, id, ok)
			}
		})
	}
}

// Organizasyon filtresi fetch SONRASI uygulama katmanında daraltır
func TestFilterByOrganization(t *testing.T) {
	rows := []models.Purchase{
		purchaseWithOrg(1, 7),
		purchaseWithOrg(2, 3),
		purchaseWithOrg(3, 7),
		purchaseWithOrg(4, 9),
	}

	filtered := filterByOrganization(rows, 7)
	if len(filtered) != 2 {
		t.Fatalf("2 kayıt bekleniyordu: %d", len(filtered))
	}
	for _, r := range filtered {
		if r.Branch.OrganizationID != 7 {
			t.Fatalf("organizasyon 7 dışı kayıt sızdı: %d", r.Branch.OrganizationID)
		}
	}
}

func TestFilterByOrganizationEmptyResult(t *testing.T) {
	rows := []models.Purchase{purchaseWithOrg(1, 3)}

	filtered := filterByOrganization(rows, 7)
	if len(filtered) != 0 {
		t.Fatalf("boş sonuç bekleniyordu: %d", len(filtered))
	}
	if filtered == nil {
		t.Fatal("nil değil boş slice dönmeli")
	}
}

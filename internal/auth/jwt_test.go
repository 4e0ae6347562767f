package auth

import (
	"testing"

	"sadakat-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-that-is-at-least-32-chars!!"

func parseToken(t *testing.T, tokenStr, secret string) (*JWTCustomClaims, error) {
	t.Helper()
	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, _ := token.Claims.(*JWTCustomClaims)
	return claims, nil
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	orgID := uint(7)
	branchID := uint(5)
	user := &models.User{
		ID:             3,
		Email:          "kasiyer@example.com",
		Role:           models.RoleCashier,
		OrganizationID: &orgID,
		BranchID:       &branchID,
	}

	tokenStr, err := GenerateToken(testSecret, user)
	if err != nil {
		t.Fatalf("token üretilemedi: %v", err)
	}

	claims, err := parseToken(t, tokenStr, testSecret)
	if err != nil {
		t.Fatalf("token çözülemedi: %v", err)
	}

	if claims.UserID != 3 || claims.Role != models.RoleCashier {
		t.Fatalf("claim'ler eşleşmiyor: %+v", claims)
	}
	if claims.OrganizationID == nil || *claims.OrganizationID != 7 {
		t.Fatalf("organizasyon claim'i eksik: %+v", claims.OrganizationID)
	}
	if claims.BranchID == nil || *claims.BranchID != 5 {
		t.Fatalf("şube claim'i eksik: %+v", claims.BranchID)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	user := &models.User{ID: 1, Email: "a@b.c", Role: models.RoleSuperAdmin}

	tokenStr, err := GenerateToken(testSecret, user)
	if err != nil {
		t.Fatalf("token üretilemedi: %v", err)
	}

	if _, err := parseToken(t, tokenStr, "another-secret-also-32-chars-long!!!"); err == nil {
		t.Fatal("yanlış secret ile doğrulama başarısız olmalıydı")
	}
}

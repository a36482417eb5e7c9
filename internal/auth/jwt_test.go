package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mlakar/inventar/internal/model"
)

var testSecrets = Secrets{Access: "access-secret", Refresh: "refresh-secret"}

func testUser() *model.User {
	return &model.User{ID: 1, Username: "alice", Role: model.RoleAdmin}
}

func TestIssueAndVerifyTokenPair(t *testing.T) {
	pair, err := IssueTokenPair(testSecrets, testUser())
	if err != nil {
		t.Fatalf("IssueTokenPair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected non-empty tokens")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}

	claims, err := VerifyToken(testSecrets.Access, KindAccess, pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyToken(access): %v", err)
	}
	if claims.UserID != 1 || claims.Username != "alice" || claims.Role != model.RoleAdmin {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if _, err := VerifyToken(testSecrets.Refresh, KindRefresh, pair.RefreshToken); err != nil {
		t.Fatalf("VerifyToken(refresh): %v", err)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	pair, _ := IssueTokenPair(testSecrets, testUser())

	_, err := VerifyToken("other-secret", KindAccess, pair.AccessToken)
	if !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyTokenKindMismatch(t *testing.T) {
	secrets := Secrets{Access: "shared", Refresh: "shared"}
	pair, _ := IssueTokenPair(secrets, testUser())

	// Even with identical secrets, a refresh token must not pass as access.
	_, err := VerifyToken("shared", KindAccess, pair.RefreshToken)
	if !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for kind mismatch, got %v", err)
	}
}

func TestVerifyTokenGarbage(t *testing.T) {
	_, err := VerifyToken(testSecrets.Access, KindAccess, "not-a-token")
	if !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	// Sign an already-expired token with the access secret.
	claims := Claims{
		UserID:   1,
		Username: "alice",
		Role:     model.RoleAdmin,
		Kind:     KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecrets.Access))
	if err != nil {
		t.Fatalf("signing expired token: %v", err)
	}

	_, err = VerifyToken(testSecrets.Access, KindAccess, signed)
	if !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenExpiries(t *testing.T) {
	pair, _ := IssueTokenPair(testSecrets, testUser())

	access, _ := VerifyToken(testSecrets.Access, KindAccess, pair.AccessToken)
	refresh, _ := VerifyToken(testSecrets.Refresh, KindRefresh, pair.RefreshToken)

	checkExpiry := func(name string, got time.Time, expiry time.Duration) {
		expected := time.Now().Add(expiry)
		diff := expected.Sub(got)
		if diff < -5*time.Second || diff > 5*time.Second {
			t.Errorf("%s expiry too far from expected: diff=%v", name, diff)
		}
	}
	checkExpiry("access", access.ExpiresAt.Time, AccessExpiry)
	checkExpiry("refresh", refresh.ExpiresAt.Time, RefreshExpiry)

	if !refresh.ExpiresAt.After(access.ExpiresAt.Time) {
		t.Error("refresh token should outlive access token")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if err := CheckPassword(hash, "correct horse battery"); err != nil {
		t.Errorf("expected matching password to verify, got %v", err)
	}

	err = CheckPassword(hash, "wrong")
	if !errors.Is(err, model.ErrAuthenticationFailed) {
		t.Errorf("expected ErrAuthenticationFailed, got %v", err)
	}
}

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mlakar/inventar/internal/model"
)

// Token kinds. Access and refresh tokens are signed with distinct secrets,
// so a refresh token can never be replayed as an access token.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Token lifetimes.
const (
	AccessExpiry  = 15 * time.Minute
	RefreshExpiry = 7 * 24 * time.Hour
)

// Claims represents the JWT claims: the authenticated user's public profile
// plus the registered expiry/issuance fields.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Kind     string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenPair holds a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Secrets holds the two independent signing secrets.
type Secrets struct {
	Access  string
	Refresh string
}

// IssueTokenPair creates a signed access and refresh token for a user.
func IssueTokenPair(secrets Secrets, user *model.User) (*TokenPair, error) {
	access, err := generateToken(secrets.Access, KindAccess, AccessExpiry, user)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}

	refresh, err := generateToken(secrets.Refresh, KindRefresh, RefreshExpiry, user)
	if err != nil {
		return nil, fmt.Errorf("issuing refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// generateToken creates a new JWT of the given kind with a unique JTI.
func generateToken(secret, kind string, expiry time.Duration, user *model.User) (string, error) {
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a JWT of the given kind, returning the
// embedded claims. Bad signatures, wrong kinds and elapsed expiries all
// surface as model.ErrInvalidToken.
func VerifyToken(secret, kind, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", model.ErrInvalidToken)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, model.ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("wrong token kind %q: %w", claims.Kind, model.ErrInvalidToken)
	}

	return claims, nil
}

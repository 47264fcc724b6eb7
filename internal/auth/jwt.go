package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CTU-F-2025/forum-service/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Identity is the authenticated caller, threaded explicitly into every
// service call. It is never resolved through ambient lookups.
type Identity struct {
	UserID   uint
	Username string
	Role     models.UserRole
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// Claims carried by the session token: user id, username and role, plus the
// registered expiry. Expiry is the only termination mechanism; there is no
// server-side revocation list.
type Claims struct {
	jwt.RegisteredClaims
	UserID   uint   `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// TokenManager signs and verifies bearer session tokens.
type TokenManager struct {
	secretKey []byte
	issuer    string
	validity  time.Duration
}

func NewTokenManager(secretKey []byte, issuer string, validity time.Duration) *TokenManager {
	return &TokenManager{
		secretKey: secretKey,
		issuer:    issuer,
		validity:  validity,
	}
}

// Generate issues a signed HS256 token embedding the user's identity claims.
func (tm *TokenManager) Generate(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.validity)),
		},
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})

	return token.SignedString(tm.secretKey)
}

// Parse validates the signature and expiry and returns the caller identity.
// Missing or malformed claims are an authentication failure, not a crash.
func (tm *TokenManager) Parse(tokenString string) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tm.secretKey, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.UserID == 0 || claims.Username == "" {
		return nil, ErrInvalidToken
	}

	role := models.UserRole(claims.Role)
	if role != models.RoleStudent && role != models.RoleAdmin {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     role,
	}, nil
}

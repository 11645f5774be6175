package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"dealer-service/internal/model"
	"dealer-service/pkg/config"

	"github.com/golang-jwt/jwt/v4"
)

var cfg *config.SessionConfig

// Sentinel errors so callers can branch on expiry vs tampering.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// SessionClaims represents the JWT claims carried by the session cookie.
// It is built from an Account and deliberately has no password field.
type SessionClaims struct {
	AccountID   uint   `json:"account_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	AccountType string `json:"account_type"`
	jwt.RegisteredClaims
}

// IsStaff reports whether the claims carry an inventory-management role.
func (c *SessionClaims) IsStaff() bool {
	return c.AccountType == model.AccountTypeEmployee || c.AccountType == model.AccountTypeAdmin
}

// Initialize sets the package-level session configuration
func Initialize(sessionConfig *config.SessionConfig) {
	cfg = sessionConfig
}

// GenerateToken creates a signed session token for the given account.
// The claim set is derived from the account row minus the password hash.
func GenerateToken(account *model.Account) (string, error) {
	if cfg == nil {
		return "", errors.New("session configuration not provided")
	}

	claims := SessionClaims{
		AccountID:   account.ID,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		Email:       account.Email,
		AccountType: account.AccountType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SigningKey))
}

// ValidateToken validates and parses the session token
func ValidateToken(tokenString string) (*SessionClaims, error) {
	if cfg == nil {
		return nil, errors.New("session configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.SigningKey), nil
		},
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}

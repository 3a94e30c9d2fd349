// Package auth issues and verifies the bearer tokens shared across services,
// and hashes passwords for the identity service.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/matchup-gg/matchup/internal/apperr"
	"github.com/matchup-gg/matchup/internal/models"
)

// Principal is the authenticated caller derived from a bearer token.
type Principal struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
	Role        string
}

var errInvalidToken = apperr.New(apperr.Unauthenticated, "INVALID_TOKEN", "invalid or expired token")

// CreateToken signs an HS256 JWT for user. Every service verifies against
// the same shared secret. ttl <= 0 means no expiry claim.
func CreateToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"name":  user.DisplayName,
		"role":  user.Role,
	}
	if ttl > 0 {
		claims["exp"] = time.Now().Add(ttl).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies a bearer token and extracts the principal.
func ParseToken(tokenString, secret string) (*Principal, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !t.Valid {
		return nil, errInvalidToken
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidToken
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errInvalidToken
	}

	p := &Principal{UserID: userID}
	p.Email, _ = claims["email"].(string)
	p.DisplayName, _ = claims["name"].(string)
	p.Role, _ = claims["role"].(string)
	return p, nil
}

package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"weddingshare/internal/apperrors"
)

// Actor is the (userName, deviceId) pair behind every write. It is not
// an authenticated identity; IsAdmin is the only server-verified part.
type Actor struct {
	UserName string `json:"userName"`
	DeviceID string `json:"deviceId"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (a Actor) Valid() bool { return a.UserName != "" && a.DeviceID != "" }

func (a Actor) Same(userName, deviceID string) bool {
	return a.UserName == userName && a.DeviceID == deviceID
}

type adminClaims struct {
	jwt.RegisteredClaims
}

// MintAdminToken issues a signed admin session token. The admin flag is
// never trusted from the client; it travels only inside this token.
func MintAdminToken(secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := adminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(secret))
}

func VerifyAdminToken(secret, token string) error {
	parsed, err := jwt.ParseWithClaims(token, &adminClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return apperrors.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*adminClaims)
	if !ok || claims.Subject != "admin" {
		return apperrors.ErrUnauthorized
	}
	return nil
}

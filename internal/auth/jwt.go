package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lodge-dining-backend/internal/model"
)

// Claims are the verified contents of an access token.
type Claims struct {
	UserID    int64
	Role      model.Role
	JTI       string
	ExpiresAt time.Time
}

// NewAccessToken builds and signs an HS256 JWT for a user. The jti claim
// lets logout revoke a single token without touching the rest.
func NewAccessToken(secret string, userID int64, role model.Role, ttl time.Duration) (string, Claims, error) {
	jti, err := randomHex(16)
	if err != nil {
		return "", Claims{}, err
	}

	now := time.Now().UTC()
	exp := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", userID),
		"role": string(role),
		"jti":  jti,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", Claims{}, err
	}
	return signed, Claims{UserID: userID, Role: role, JTI: jti, ExpiresAt: exp}, nil
}

// ParseAccessToken verifies the signature and expiry and extracts the claims.
func ParseAccessToken(secret, raw string) (Claims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, fmt.Errorf("invalid token: %w", err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("invalid token claims")
	}

	sub, _ := mapClaims.GetSubject()
	var userID int64
	if _, err := fmt.Sscanf(sub, "%d", &userID); err != nil || userID <= 0 {
		return Claims{}, fmt.Errorf("invalid subject claim")
	}

	rawRole, _ := mapClaims["role"].(string)
	role, ok := model.ParseRole(rawRole)
	if !ok {
		return Claims{}, fmt.Errorf("invalid role claim %q", rawRole)
	}

	jti, _ := mapClaims["jti"].(string)

	var exp time.Time
	if numericDate, err := mapClaims.GetExpirationTime(); err == nil && numericDate != nil {
		exp = numericDate.Time
	}

	return Claims{UserID: userID, Role: role, JTI: jti, ExpiresAt: exp}, nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

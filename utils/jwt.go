package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"villastay/config"

	"github.com/golang-jwt/jwt"
)

const devSecret = "villastay-dev-secret"

var ErrInvalidToken = errors.New("invalid token")

// StaffClaims are the claims carried by staff tokens.
type StaffClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

func secretKey() []byte {
	if config.AppConfig.JWTSecret == "" {
		return []byte(devSecret)
	}
	return []byte(config.AppConfig.JWTSecret)
}

// GenerateToken creates a signed JWT with the given subject, email and role.
// The token expires after the specified duration.
func GenerateToken(subject, email, role string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := StaffClaims{
		Email: email,
		Role:  role,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(duration).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses a token string and returns its claims if the
// signature, expiry and subject are valid.
func ValidateToken(tokenString string) (*StaffClaims, error) {
	claims := &StaffClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

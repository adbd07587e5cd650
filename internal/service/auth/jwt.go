package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const flashIssuer = "clientbook"

// ErrWeakSecret is returned when the signing key is empty / Clé de signature vide
var ErrWeakSecret = errors.New("flash signing key is empty")

// FlashClaims carries one notice between two requests / Transporte une notification entre deux requêtes
type FlashClaims struct {
	jwt.RegisteredClaims
	Category string `json:"cat"`
	Message  string `json:"msg"`
}

// SignFlash creates a signed flash token / Crée un token flash signé
func SignFlash(category, message, key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", ErrWeakSecret
	}

	now := time.Now()
	claims := &FlashClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    flashIssuer,
		},
		Category: category,
		Message:  message,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(key))
}

// ParseFlash validates a flash token / Valide un token flash
func ParseFlash(tokenStr, key string) (*FlashClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &FlashClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing algorithm: %v", token.Header["alg"])
		}
		return []byte(key), nil
	}, jwt.WithIssuer(flashIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*FlashClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

// GenerateSecureToken generates secure random token / Génère un token aléatoire sécurisé
func GenerateSecureToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

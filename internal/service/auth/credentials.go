package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Credentials checks Basic authentication pairs / Vérifie les identifiants Basic
type Credentials struct {
	username     string
	passwordHash []byte
}

// NewCredentials creates a checker from a bcrypt hash / Crée un vérificateur depuis un hash bcrypt
func NewCredentials(username, passwordHash string) *Credentials {
	return &Credentials{username: username, passwordHash: []byte(passwordHash)}
}

// Valid reports whether the pair matches / Indique si la paire correspond
// The password is always compared so a wrong username costs the same time.
func (c *Credentials) Valid(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password)) == nil
	return userOK && passOK
}

// HashPassword hashes a password for the auth.password_hash setting / Hash un mot de passe
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/orderbridge/backend/internal/infrastructure/config"
)

// ErrInvalidCredentials is returned for any unknown username or wrong password
var ErrInvalidCredentials = errors.New("invalid username or password")

// AdminAuthenticator checks the configured admin credentials
type AdminAuthenticator struct {
	username     string
	passwordHash []byte
}

// NewAdminAuthenticator creates an authenticator from the admin config.
// An empty password hash disables login.
func NewAdminAuthenticator(cfg config.AdminConfig) *AdminAuthenticator {
	return &AdminAuthenticator{
		username:     cfg.Username,
		passwordHash: []byte(cfg.PasswordHash),
	}
}

// Authenticate verifies username and password against the bcrypt hash
func (a *AdminAuthenticator) Authenticate(username, password string) error {
	if len(a.passwordHash) == 0 || a.username == "" {
		return ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	// bcrypt runs even for an unknown username
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword hashes a password for use as admin.password_hash
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

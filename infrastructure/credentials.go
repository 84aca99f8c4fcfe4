package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"arcade/domain/entities"
	"arcade/domain/interfaces"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes new passwords with bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher using bcrypt.DefaultCost
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// Hash returns the bcrypt hash of password
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// BcryptCredentialVerifier checks a username/password pair against the stored bcrypt hash
type BcryptCredentialVerifier struct {
	accounts interfaces.AccountRepository
}

// NewBcryptCredentialVerifier creates a verifier reading hashes from the account store
func NewBcryptCredentialVerifier(accounts interfaces.AccountRepository) *BcryptCredentialVerifier {
	return &BcryptCredentialVerifier{accounts: accounts}
}

// Verify returns the account ID for valid credentials and ErrInvalidCredentials otherwise
func (v *BcryptCredentialVerifier) Verify(ctx context.Context, username, password string) (int64, error) {
	account, err := v.accounts.GetByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to load credentials: %w", err)
	}
	if account == nil {
		return 0, entities.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return 0, entities.ErrInvalidCredentials
	}
	if err != nil {
		return 0, fmt.Errorf("failed to compare password hash: %w", err)
	}

	return account.ID, nil
}

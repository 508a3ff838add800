package password

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dropDatabas3/audiohub/internal/observability/logger"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MinLength is counted in characters, not bytes.
	MinLength = 8
	// MaxBytes is the bcrypt input limit; longer secrets are refused, not truncated.
	MaxBytes = 72
	// DefaultCost matches the rounds used by the accounts created before this service.
	DefaultCost = 12
)

var (
	ErrWeakPassword    = errors.New("password too short")
	ErrPasswordTooLong = errors.New("password too long")
)

// Hasher hashes local credentials with bcrypt. The zero value uses DefaultCost.
type Hasher struct {
	Cost int
}

func NewHasher(cost int) *Hasher {
	return &Hasher{Cost: cost}
}

func (h *Hasher) cost() int {
	if h == nil || h.Cost == 0 {
		return DefaultCost
	}
	return h.Cost
}

// Hash returns a salted bcrypt hash. Two calls with the same input differ.
func (h *Hasher) Hash(plain string) (string, error) {
	if utf8.RuneCountInString(plain) < MinLength {
		return "", ErrWeakPassword
	}
	if len(plain) > MaxBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost())
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plain matches hash. It never returns an error:
// a corrupt or foreign hash format is reported as a mismatch.
func (h *Hasher) Verify(plain, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return true
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		logger.L().Warn("password verification failed", logger.Component("password"), logger.Err(err))
	}
	return false
}

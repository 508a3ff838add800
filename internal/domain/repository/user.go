package repository

import (
	"context"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

// User is a local account. ExternalID links it to the identity provider.
type User struct {
	ID             int64
	Email          string
	Username       string
	HashedPassword *string
	ExternalID     *string
	IsActive       bool
	IsSuperuser    bool
	CreatedAt      time.Time
}

// HasPassword reports whether the account can use local credentials.
func (u *User) HasPassword() bool {
	return u != nil && u.HashedPassword != nil && *u.HashedPassword != ""
}

// CreateUserInput holds the fields of a new account. IsActive defaults to true
// unless Inactive is set.
type CreateUserInput struct {
	Email          string
	Username       string
	HashedPassword *string
	ExternalID     *string
	IsSuperuser    bool
	Inactive       bool
}

// UpdateUserInput is a partial update: only non-nil fields are applied.
type UpdateUserInput struct {
	Email          *string
	Username       *string
	HashedPassword *string
	ExternalID     *string
	IsActive       *bool
	IsSuperuser    *bool
}

// Empty reports whether the update would change nothing.
func (in UpdateUserInput) Empty() bool {
	return in.Email == nil && in.Username == nil && in.HashedPassword == nil &&
		in.ExternalID == nil && in.IsActive == nil && in.IsSuperuser == nil
}

// ListFilter paginates list queries. Limit <= 0 means DefaultListLimit.
type ListFilter struct {
	Skip  int
	Limit int
}

const (
	DefaultListLimit = 100
	MaxListLimit     = 100
)

// Normalize clamps Skip and Limit into their valid ranges.
func (f ListFilter) Normalize() ListFilter {
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	return f
}

// UserRepository persists accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)

	// Create returns ErrConflict when email, username or external id is taken,
	// ErrInvalidEmail for a malformed email and ErrInvalidInput when the
	// username does not match UsernamePattern.
	Create(ctx context.Context, in CreateUserInput) (*User, error)

	// Update applies the non-nil fields and returns the stored row.
	Update(ctx context.Context, id int64, in UpdateUserInput) (*User, error)

	// Delete removes the account and, by cascade, its audio records.
	Delete(ctx context.Context, id int64) error

	List(ctx context.Context, filter ListFilter) ([]User, error)
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,10}$`)

// UsernamePattern is enforced by every store on create and update.
const UsernamePattern = `^[a-zA-Z0-9_-]{3,10}$`

func ValidUsername(s string) bool { return usernameRe.MatchString(s) }

// ValidEmail accepts a bare addr-spec; display names and angle brackets are rejected.
func ValidEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}

// NormalizeEmail is the comparison key for emails.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a unique constraint was violated (email, username, external id).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput: a value failed a storage-level check (e.g. username format).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidEmail is the email-specific ErrInvalidInput.
	ErrInvalidEmail = fmt.Errorf("%w: email", ErrInvalidInput)
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

func IsInvalidEmail(err error) bool { return errors.Is(err, ErrInvalidEmail) }

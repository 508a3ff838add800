// Package admin holds superuser account management.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/audiohub/internal/audit"
	"github.com/dropDatabas3/audiohub/internal/domain/repository"
	"github.com/dropDatabas3/audiohub/internal/http/services/audio"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
	"github.com/dropDatabas3/audiohub/internal/security/password"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrConflict        = errors.New("email, username or external id already in use")
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrMissingFields   = errors.New("email and username are required")
	ErrSelfAction      = errors.New("cannot deactivate or delete own account")
)

type CreateUserInput struct {
	Email       string
	Username    string
	Password    *string
	ExternalID  *string
	IsSuperuser bool
}

type UpdateUserInput struct {
	Email       *string
	Username    *string
	Password    *string
	IsActive    *bool
	IsSuperuser *bool
}

type UsersService interface {
	List(ctx context.Context, f repository.ListFilter) ([]repository.User, error)
	Get(ctx context.Context, id int64) (*repository.User, error)
	Create(ctx context.Context, in CreateUserInput) (*repository.User, error)
	Update(ctx context.Context, id int64, in UpdateUserInput) (*repository.User, error)
	// Deactivate and Delete refuse to act on actorID itself.
	Deactivate(ctx context.Context, actorID, id int64) (*repository.User, error)
	Delete(ctx context.Context, actorID, id int64) error
}

type Deps struct {
	Users  repository.UserRepository
	Hasher *password.Hasher
	// Audio removes the deleted user's files; nil skips blob cleanup.
	Audio audio.Service
}

type usersService struct {
	deps Deps
}

func NewUsersService(d Deps) UsersService {
	return &usersService{deps: d}
}

func (s *usersService) List(ctx context.Context, f repository.ListFilter) ([]repository.User, error) {
	return s.deps.Users.List(ctx, f.Normalize())
}

func (s *usersService) Get(ctx context.Context, id int64) (*repository.User, error) {
	u, err := s.deps.Users.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (s *usersService) Create(ctx context.Context, in CreateUserInput) (*repository.User, error) {
	email := repository.NormalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" {
		return nil, ErrMissingFields
	}
	if !repository.ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !repository.ValidUsername(username) {
		return nil, ErrInvalidUsername
	}

	var hashed *string
	if in.Password != nil {
		h, err := s.deps.Hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		hashed = &h
	}

	u, err := s.deps.Users.Create(ctx, repository.CreateUserInput{
		Email:          email,
		Username:       username,
		HashedPassword: hashed,
		ExternalID:     in.ExternalID,
		IsSuperuser:    in.IsSuperuser,
	})
	if err != nil {
		return nil, mapErr(err)
	}
	audit.Log(ctx, audit.UserCreated, logger.UserID(u.ID), logger.Bool("superuser", u.IsSuperuser))
	return u, nil
}

func (s *usersService) Update(ctx context.Context, id int64, in UpdateUserInput) (*repository.User, error) {
	upd := repository.UpdateUserInput{
		IsActive:    in.IsActive,
		IsSuperuser: in.IsSuperuser,
	}
	if in.Email != nil {
		e := repository.NormalizeEmail(*in.Email)
		if e == "" {
			return nil, ErrMissingFields
		}
		if !repository.ValidEmail(e) {
			return nil, ErrInvalidEmail
		}
		upd.Email = &e
	}
	if in.Username != nil {
		if !repository.ValidUsername(*in.Username) {
			return nil, ErrInvalidUsername
		}
		upd.Username = in.Username
	}
	if in.Password != nil {
		h, err := s.deps.Hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		upd.HashedPassword = &h
	}
	if upd.Empty() {
		return s.Get(ctx, id)
	}

	u, err := s.deps.Users.Update(ctx, id, upd)
	if err != nil {
		return nil, mapErr(err)
	}
	audit.Log(ctx, audit.UserUpdated, logger.UserID(u.ID))
	return u, nil
}

func (s *usersService) Deactivate(ctx context.Context, actorID, id int64) (*repository.User, error) {
	if actorID == id {
		return nil, ErrSelfAction
	}
	off := false
	u, err := s.deps.Users.Update(ctx, id, repository.UpdateUserInput{IsActive: &off})
	if err != nil {
		return nil, mapErr(err)
	}
	audit.Log(ctx, audit.UserDeactivated, logger.UserID(id), logger.Int64("actor_id", actorID))
	return u, nil
}

func (s *usersService) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return ErrSelfAction
	}
	if _, err := s.deps.Users.GetByID(ctx, id); err != nil {
		return mapErr(err)
	}
	if s.deps.Audio != nil {
		if err := s.deps.Audio.DeleteAllForOwner(ctx, id); err != nil {
			return fmt.Errorf("delete user audio: %w", err)
		}
	}
	if err := s.deps.Users.Delete(ctx, id); err != nil {
		return mapErr(err)
	}
	audit.Log(ctx, audit.UserDeleted, logger.UserID(id), logger.Int64("actor_id", actorID))
	return nil
}

func mapErr(err error) error {
	switch {
	case repository.IsNotFound(err):
		return ErrUserNotFound
	case repository.IsConflict(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case repository.IsInvalidEmail(err):
		return fmt.Errorf("%w: %v", ErrInvalidEmail, err)
	case repository.IsInvalidInput(err):
		return fmt.Errorf("%w: %v", ErrInvalidUsername, err)
	default:
		return err
	}
}

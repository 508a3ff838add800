package admin

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/audiohub/internal/domain/repository"
	"github.com/dropDatabas3/audiohub/internal/security/password"
	"github.com/dropDatabas3/audiohub/internal/store/memory"
)

func newSvc(t *testing.T) (UsersService, *memory.Store) {
	t.Helper()
	st := memory.New()
	return NewUsersService(Deps{Users: st.Users(), Hasher: password.NewHasher(4)}), st
}

func ptr[T any](v T) *T { return &v }

func TestCreate(t *testing.T) {
	svc, _ := newSvc(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateUserInput{Email: " Root@B.com", Username: "root", Password: ptr("longenough"), IsSuperuser: true})
	require.NoError(t, err)
	assert.Equal(t, "root@b.com", u.Email)
	assert.True(t, u.IsSuperuser)
	require.NotNil(t, u.HashedPassword)
	assert.True(t, password.NewHasher(4).Verify("longenough", *u.HashedPassword))

	_, err = svc.Create(ctx, CreateUserInput{Email: "root@b.com", Username: "other"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Create(ctx, CreateUserInput{Email: "x@b.com", Username: "x"})
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = svc.Create(ctx, CreateUserInput{Email: "x@b.com", Username: "xavier", Password: ptr("short")})
	assert.ErrorIs(t, err, password.ErrWeakPassword)

	_, err = svc.Create(ctx, CreateUserInput{Email: "x@b.com", Username: "xavier", Password: ptr(strings.Repeat("p", 73))})
	assert.ErrorIs(t, err, password.ErrPasswordTooLong)

	_, err = svc.Create(ctx, CreateUserInput{Username: "xavier"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Create(ctx, CreateUserInput{Email: "x at b.com", Username: "xavier"})
	assert.ErrorIs(t, err, ErrInvalidEmail)
	assert.NotErrorIs(t, err, ErrInvalidUsername)
}

func TestMapErr_InvalidInputKinds(t *testing.T) {
	email := mapErr(fmt.Errorf("%w: %q", repository.ErrInvalidEmail, "x"))
	assert.ErrorIs(t, email, ErrInvalidEmail)
	assert.NotErrorIs(t, email, ErrInvalidUsername)

	username := mapErr(fmt.Errorf("%w: username", repository.ErrInvalidInput))
	assert.ErrorIs(t, username, ErrInvalidUsername)
	assert.NotErrorIs(t, username, ErrInvalidEmail)
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, _ := newSvc(t)
	ctx := context.Background()
	u, err := svc.Create(ctx, CreateUserInput{Email: "a@b.com", Username: "alice"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, u.ID, UpdateUserInput{Username: ptr("alice2")})
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username)
	assert.Equal(t, "a@b.com", got.Email)
	assert.True(t, got.IsActive)

	got, err = svc.Update(ctx, u.ID, UpdateUserInput{})
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username)

	_, err = svc.Update(ctx, 999, UpdateUserInput{IsActive: ptr(false)})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeactivateAndDelete(t *testing.T) {
	svc, st := newSvc(t)
	ctx := context.Background()
	admin, err := svc.Create(ctx, CreateUserInput{Email: "root@b.com", Username: "root", IsSuperuser: true})
	require.NoError(t, err)
	u, err := svc.Create(ctx, CreateUserInput{Email: "a@b.com", Username: "alice"})
	require.NoError(t, err)

	_, err = svc.Deactivate(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrSelfAction)
	assert.ErrorIs(t, svc.Delete(ctx, admin.ID, admin.ID), ErrSelfAction)

	got, err := svc.Deactivate(ctx, admin.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	require.NoError(t, svc.Delete(ctx, admin.ID, u.ID))
	_, err = st.Users().GetByID(ctx, u.ID)
	assert.True(t, repository.IsNotFound(err))
	assert.ErrorIs(t, svc.Delete(ctx, admin.ID, u.ID), ErrUserNotFound)
}

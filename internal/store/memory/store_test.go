package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/audiohub/internal/domain/repository"
)

func ptr[T any](v T) *T { return &v }

func TestUsers_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	s := New()
	users := s.Users()

	u, err := users.Create(ctx, repository.CreateUserInput{
		Email:      "Alice@Example.com",
		Username:   "alice",
		ExternalID: ptr("ext-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsSuperuser)
	assert.False(t, u.HasPassword())

	got, err := users.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = users.GetByExternalID(ctx, "ext-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.GetByExternalID(ctx, "ext-2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = users.GetByID(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUsers_Uniqueness(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	_, err := users.Create(ctx, repository.CreateUserInput{Email: "a@b.com", Username: "alice", ExternalID: ptr("x")})
	require.NoError(t, err)

	_, err = users.Create(ctx, repository.CreateUserInput{Email: "A@B.COM", Username: "bob"})
	assert.ErrorIs(t, err, repository.ErrConflict)
	_, err = users.Create(ctx, repository.CreateUserInput{Email: "c@b.com", Username: "alice"})
	assert.ErrorIs(t, err, repository.ErrConflict)
	_, err = users.Create(ctx, repository.CreateUserInput{Email: "c@b.com", Username: "carol", ExternalID: ptr("x")})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestUsers_InvalidUsername(t *testing.T) {
	users := New().Users()
	_, err := users.Create(context.Background(), repository.CreateUserInput{Email: "a@b.com", Username: "a b"})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
	assert.NotErrorIs(t, err, repository.ErrInvalidEmail)
}

func TestUsers_InvalidEmail(t *testing.T) {
	ctx := context.Background()
	users := New().Users()
	for _, bad := range []string{"", "not-an-email", "Alice <a@b.com>"} {
		_, err := users.Create(ctx, repository.CreateUserInput{Email: bad, Username: "alice"})
		assert.ErrorIs(t, err, repository.ErrInvalidEmail, bad)
		assert.ErrorIs(t, err, repository.ErrInvalidInput, bad)
	}

	u, err := users.Create(ctx, repository.CreateUserInput{Email: "a@b.com", Username: "alice"})
	require.NoError(t, err)
	_, err = users.Update(ctx, u.ID, repository.UpdateUserInput{Email: ptr("@b.com")})
	assert.ErrorIs(t, err, repository.ErrInvalidEmail)
}

func TestUsers_UpdateAppliesOnlyPresentFields(t *testing.T) {
	ctx := context.Background()
	users := New().Users()
	u, err := users.Create(ctx, repository.CreateUserInput{Email: "a@b.com", Username: "alice", HashedPassword: ptr("h")})
	require.NoError(t, err)

	got, err := users.Update(ctx, u.ID, repository.UpdateUserInput{ExternalID: ptr("ext-9")})
	require.NoError(t, err)
	assert.Equal(t, "ext-9", *got.ExternalID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "h", *got.HashedPassword)

	got, err = users.Update(ctx, u.ID, repository.UpdateUserInput{IsActive: ptr(false), Username: ptr("alice2")})
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = users.GetByExternalID(ctx, "ext-9")
	require.NoError(t, err)

	_, err = users.Update(ctx, 99, repository.UpdateUserInput{IsActive: ptr(true)})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUsers_UpdateConflict(t *testing.T) {
	ctx := context.Background()
	users := New().Users()
	a, _ := users.Create(ctx, repository.CreateUserInput{Email: "a@b.com", Username: "alice", ExternalID: ptr("x")})
	b, _ := users.Create(ctx, repository.CreateUserInput{Email: "b@b.com", Username: "bob"})

	_, err := users.Update(ctx, b.ID, repository.UpdateUserInput{ExternalID: ptr("x")})
	assert.ErrorIs(t, err, repository.ErrConflict)
	_, err = users.Update(ctx, b.ID, repository.UpdateUserInput{Email: ptr("A@b.com")})
	assert.ErrorIs(t, err, repository.ErrConflict)

	// re-applying own values is fine
	_, err = users.Update(ctx, a.ID, repository.UpdateUserInput{ExternalID: ptr("x"), Email: ptr("a@b.com")})
	assert.NoError(t, err)
}

func TestUsers_ConcurrentCreateSingleWinner(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	const n = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, confl int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := users.Create(ctx, repository.CreateUserInput{Email: "a@b.com", Username: "alice", ExternalID: ptr("ext-1")})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case repository.IsConflict(err):
				confl++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, confl)
}

func TestUsers_ListAndDeleteCascade(t *testing.T) {
	ctx := context.Background()
	s := New()
	for i := 0; i < 5; i++ {
		_, err := s.Users().Create(ctx, repository.CreateUserInput{Email: fmt.Sprintf("u%d@b.com", i), Username: fmt.Sprintf("user%d", i)})
		require.NoError(t, err)
	}

	list, err := s.Users().List(ctx, repository.ListFilter{Skip: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, int64(3), list[1].ID)

	_, err = s.Audios().Create(ctx, repository.CreateAudioInput{Name: "a.mp3", Path: "p", OwnerID: 1})
	require.NoError(t, err)
	require.NoError(t, s.Users().Delete(ctx, 1))

	audios, err := s.Audios().ListByOwner(ctx, 1, repository.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, audios)
	assert.ErrorIs(t, s.Users().Delete(ctx, 1), repository.ErrNotFound)
}

func TestAudios_OwnerScoped(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice, _ := s.Users().Create(ctx, repository.CreateUserInput{Email: "a@b.com", Username: "alice"})
	bob, _ := s.Users().Create(ctx, repository.CreateUserInput{Email: "b@b.com", Username: "bob"})

	a, err := s.Audios().Create(ctx, repository.CreateAudioInput{Name: "song.mp3", Path: "audios/user_1/song.mp3", OwnerID: alice.ID, Size: 3})
	require.NoError(t, err)

	_, err = s.Audios().GetForOwner(ctx, a.ID, bob.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.Audios().Rename(ctx, a.ID, bob.ID, "x.mp3")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, s.Audios().Delete(ctx, a.ID, bob.ID), repository.ErrNotFound)

	renamed, err := s.Audios().Rename(ctx, a.ID, alice.ID, "new.mp3")
	require.NoError(t, err)
	assert.Equal(t, "new.mp3", renamed.Name)

	_, err = s.Audios().Create(ctx, repository.CreateAudioInput{Name: "x", Path: "p", OwnerID: 77})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, s.Audios().Delete(ctx, a.ID, alice.ID))
	_, err = s.Audios().GetForOwner(ctx, a.ID, alice.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

package bootstrap

import (
	"context"
	"testing"

	"github.com/dropDatabas3/audiohub/internal/domain/repository"
	"github.com/dropDatabas3/audiohub/internal/security/password"
	"github.com/dropDatabas3/audiohub/internal/store/memory"
	"github.com/stretchr/testify/require"
)

func TestEnsureSuperuser(t *testing.T) {
	ctx := context.Background()
	hasher := password.NewHasher(4)

	t.Run("disabled when unset", func(t *testing.T) {
		users := memory.New().Users()
		created, err := EnsureSuperuser(ctx, users, hasher, SuperuserConfig{})
		require.NoError(t, err)
		require.False(t, created)
	})

	t.Run("half configured", func(t *testing.T) {
		users := memory.New().Users()
		_, err := EnsureSuperuser(ctx, users, hasher, SuperuserConfig{Email: "root@example.com"})
		require.ErrorIs(t, err, ErrIncompleteConfig)
	})

	t.Run("creates once", func(t *testing.T) {
		users := memory.New().Users()
		cfg := SuperuserConfig{Email: "Root@Example.com", Password: "correct-horse"}

		created, err := EnsureSuperuser(ctx, users, hasher, cfg)
		require.NoError(t, err)
		require.True(t, created)

		u, err := users.GetByEmail(ctx, "root@example.com")
		require.NoError(t, err)
		require.True(t, u.IsSuperuser)
		require.True(t, u.IsActive)
		require.Equal(t, DefaultUsername, u.Username)
		require.True(t, hasher.Verify("correct-horse", *u.HashedPassword))

		created, err = EnsureSuperuser(ctx, users, hasher, cfg)
		require.NoError(t, err)
		require.False(t, created)
	})

	t.Run("existing regular account untouched", func(t *testing.T) {
		users := memory.New().Users()
		_, err := users.Create(ctx, repository.CreateUserInput{Email: "ops@example.com", Username: "ops"})
		require.NoError(t, err)

		created, err := EnsureSuperuser(ctx, users, hasher, SuperuserConfig{Email: "ops@example.com", Password: "correct-horse"})
		require.NoError(t, err)
		require.False(t, created)

		u, err := users.GetByEmail(ctx, "ops@example.com")
		require.NoError(t, err)
		require.False(t, u.IsSuperuser)
	})

	t.Run("weak password", func(t *testing.T) {
		users := memory.New().Users()
		_, err := EnsureSuperuser(ctx, users, hasher, SuperuserConfig{Email: "root@example.com", Password: "short"})
		require.ErrorIs(t, err, password.ErrWeakPassword)
	})
}

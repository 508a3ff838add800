// Package store opens the configured repository backend.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/audiohub/internal/domain/repository"
	"github.com/dropDatabas3/audiohub/internal/store/memory"
	"github.com/dropDatabas3/audiohub/internal/store/pg"
)

type Config struct {
	Driver   string
	DSN      string
	Migrate  bool
	Postgres struct {
		MaxOpenConns, MaxIdleConns int
		ConnMaxLifetime            time.Duration
	}
}

// Open returns the store for cfg.Driver. With cfg.Migrate set, pending
// migrations are applied before returning.
func Open(ctx context.Context, cfg Config) (repository.Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "memory", "":
		return memory.New(), nil
	case "postgres", "pg", "postgresql":
		s, err := pg.New(ctx, pg.Config{
			DSN:             cfg.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.Migrate {
			if err := s.Migrate(ctx); err != nil {
				_ = s.Close()
				return nil, err
			}
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
}

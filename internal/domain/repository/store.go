package repository

import "context"

// Store bundles the repositories of one backing database.
type Store interface {
	Users() UserRepository
	Audios() AudioRepository

	// Ping reports whether the database is reachable (readiness check).
	Ping(ctx context.Context) error
	Close() error

	// Driver is "postgres" or "memory".
	Driver() string
}

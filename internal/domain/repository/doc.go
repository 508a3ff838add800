// Package repository defines the storage contracts used by the services.
//
// The contracts are independent of the backing store. Implementations live in
// internal/store/pg (PostgreSQL via pgx) and internal/store/memory (development
// and tests).
//
//	┌─────────────────────────────────────────────┐
//	│          services / controllers             │
//	└─────────────────────────────────────────────┘
//	                     │
//	                     ▼
//	┌─────────────────────────────────────────────┐
//	│  domain/repository (UserRepository, Audio…) │
//	└─────────────────────────────────────────────┘
//	                     │
//	          ┌──────────┴──────────┐
//	          ▼                     ▼
//	   ┌─────────────┐       ┌─────────────┐
//	   │  store/pg   │       │ store/memory│
//	   └─────────────┘       └─────────────┘
//
// Conventions:
//   - context.Context is always the first parameter.
//   - Lookups that find nothing return ErrNotFound, never (nil, nil).
//   - Unique constraint violations return ErrConflict.
//   - Emails are compared lowercase; implementations normalise with NormalizeEmail.
package repository

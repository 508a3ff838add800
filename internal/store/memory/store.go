// Package memory is an in-process implementation of the repository
// contracts. It enforces the same uniqueness and format rules as the
// PostgreSQL schema and is used for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dropDatabas3/audiohub/internal/domain/repository"
)

type Store struct {
	mu sync.RWMutex

	now func() time.Time

	users      map[int64]*repository.User
	byEmail    map[string]int64
	byUsername map[string]int64
	byExternal map[string]int64
	nextUserID int64

	audios      map[int64]*repository.Audio
	nextAudioID int64
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		now:        time.Now,
		users:      make(map[int64]*repository.User),
		byEmail:    make(map[string]int64),
		byUsername: make(map[string]int64),
		byExternal: make(map[string]int64),
		audios:     make(map[int64]*repository.Audio),
	}
}

func (s *Store) Users() repository.UserRepository   { return (*userRepo)(s) }
func (s *Store) Audios() repository.AudioRepository { return (*audioRepo)(s) }
func (s *Store) Ping(context.Context) error         { return nil }
func (s *Store) Close() error                       { return nil }
func (s *Store) Driver() string                     { return "memory" }

func cloneUser(u *repository.User) *repository.User {
	c := *u
	if u.HashedPassword != nil {
		v := *u.HashedPassword
		c.HashedPassword = &v
	}
	if u.ExternalID != nil {
		v := *u.ExternalID
		c.ExternalID = &v
	}
	return &c
}

func sortedIDs[T any](m map[int64]T, keep func(T) bool) []int64 {
	ids := make([]int64, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func page(ids []int64, f repository.ListFilter) []int64 {
	f = f.Normalize()
	if f.Skip >= len(ids) {
		return nil
	}
	end := f.Skip + f.Limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[f.Skip:end]
}

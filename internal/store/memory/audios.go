package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/audiohub/internal/domain/repository"
)

type audioRepo Store

func (r *audioRepo) Create(_ context.Context, in repository.CreateAudioInput) (*repository.Audio, error) {
	if strings.TrimSpace(in.Name) == "" || in.Path == "" {
		return nil, fmt.Errorf("%w: name and path required", repository.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[in.OwnerID]; !ok {
		return nil, fmt.Errorf("%w: owner %d", repository.ErrNotFound, in.OwnerID)
	}
	r.nextAudioID++
	a := &repository.Audio{
		ID:          r.nextAudioID,
		Name:        in.Name,
		Path:        in.Path,
		OwnerID:     in.OwnerID,
		Size:        in.Size,
		ContentType: in.ContentType,
		CreatedAt:   r.now().UTC(),
	}
	r.audios[a.ID] = a
	out := *a
	return &out, nil
}

func (r *audioRepo) GetForOwner(_ context.Context, id, ownerID int64) (*repository.Audio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.audios[id]
	if !ok || a.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (r *audioRepo) ListByOwner(_ context.Context, ownerID int64, f repository.ListFilter) ([]repository.Audio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := page(sortedIDs(r.audios, func(a *repository.Audio) bool { return a.OwnerID == ownerID }), f)
	out := make([]repository.Audio, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.audios[id])
	}
	return out, nil
}

func (r *audioRepo) Rename(_ context.Context, id, ownerID int64, name string) (*repository.Audio, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name required", repository.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.audios[id]
	if !ok || a.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	a.Name = name
	out := *a
	return &out, nil
}

func (r *audioRepo) Delete(_ context.Context, id, ownerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.audios[id]
	if !ok || a.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.audios, id)
	return nil
}

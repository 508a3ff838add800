package memory

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/audiohub/internal/domain/repository"
)

type userRepo Store

func (r *userRepo) GetByID(_ context.Context, id int64) (*repository.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[repository.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(r.users[id]), nil
}

func (r *userRepo) GetByExternalID(_ context.Context, externalID string) (*repository.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byExternal[externalID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(r.users[id]), nil
}

func (r *userRepo) Create(_ context.Context, in repository.CreateUserInput) (*repository.User, error) {
	email := repository.NormalizeEmail(in.Email)
	if !repository.ValidEmail(email) {
		return nil, fmt.Errorf("%w: %q", repository.ErrInvalidEmail, email)
	}
	if !repository.ValidUsername(in.Username) {
		return nil, fmt.Errorf("%w: username %q", repository.ErrInvalidInput, in.Username)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[email]; taken {
		return nil, fmt.Errorf("%w: email", repository.ErrConflict)
	}
	if _, taken := r.byUsername[in.Username]; taken {
		return nil, fmt.Errorf("%w: username", repository.ErrConflict)
	}
	if in.ExternalID != nil {
		if _, taken := r.byExternal[*in.ExternalID]; taken {
			return nil, fmt.Errorf("%w: external id", repository.ErrConflict)
		}
	}

	r.nextUserID++
	u := &repository.User{
		ID:             r.nextUserID,
		Email:          email,
		Username:       in.Username,
		HashedPassword: in.HashedPassword,
		ExternalID:     in.ExternalID,
		IsActive:       !in.Inactive,
		IsSuperuser:    in.IsSuperuser,
		CreatedAt:      r.now().UTC(),
	}
	u = cloneUser(u)
	r.users[u.ID] = u
	r.byEmail[email] = u.ID
	r.byUsername[u.Username] = u.ID
	if u.ExternalID != nil {
		r.byExternal[*u.ExternalID] = u.ID
	}
	return cloneUser(u), nil
}

func (r *userRepo) Update(_ context.Context, id int64, in repository.UpdateUserInput) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	next := cloneUser(cur)

	if in.Email != nil {
		email := repository.NormalizeEmail(*in.Email)
		if !repository.ValidEmail(email) {
			return nil, fmt.Errorf("%w: %q", repository.ErrInvalidEmail, email)
		}
		if other, taken := r.byEmail[email]; taken && other != id {
			return nil, fmt.Errorf("%w: email", repository.ErrConflict)
		}
		next.Email = email
	}
	if in.Username != nil {
		if !repository.ValidUsername(*in.Username) {
			return nil, fmt.Errorf("%w: username %q", repository.ErrInvalidInput, *in.Username)
		}
		if other, taken := r.byUsername[*in.Username]; taken && other != id {
			return nil, fmt.Errorf("%w: username", repository.ErrConflict)
		}
		next.Username = *in.Username
	}
	if in.ExternalID != nil {
		if other, taken := r.byExternal[*in.ExternalID]; taken && other != id {
			return nil, fmt.Errorf("%w: external id", repository.ErrConflict)
		}
		v := *in.ExternalID
		next.ExternalID = &v
	}
	if in.HashedPassword != nil {
		v := *in.HashedPassword
		next.HashedPassword = &v
	}
	if in.IsActive != nil {
		next.IsActive = *in.IsActive
	}
	if in.IsSuperuser != nil {
		next.IsSuperuser = *in.IsSuperuser
	}

	r.unindex(cur)
	r.users[id] = next
	r.index(next)
	return cloneUser(next), nil
}

func (r *userRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.unindex(u)
	delete(r.users, id)
	for aid, a := range r.audios {
		if a.OwnerID == id {
			delete(r.audios, aid)
		}
	}
	return nil
}

func (r *userRepo) List(_ context.Context, f repository.ListFilter) ([]repository.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := page(sortedIDs(r.users, nil), f)
	out := make([]repository.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, *cloneUser(r.users[id]))
	}
	return out, nil
}

func (r *userRepo) index(u *repository.User) {
	r.byEmail[u.Email] = u.ID
	r.byUsername[u.Username] = u.ID
	if u.ExternalID != nil {
		r.byExternal[*u.ExternalID] = u.ID
	}
}

func (r *userRepo) unindex(u *repository.User) {
	delete(r.byEmail, u.Email)
	delete(r.byUsername, u.Username)
	if u.ExternalID != nil {
		delete(r.byExternal, *u.ExternalID)
	}
}

package pg

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/audiohub/internal/domain/repository"
)

type userRepo struct{ pool *pgxpool.Pool }

const userColumns = `id, email, username, hashed_password, yandex_id, is_active, is_superuser, created_at`

func scanUser(row pgx.Row) (*repository.User, error) {
	var u repository.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.HashedPassword, &u.ExternalID, &u.IsActive, &u.IsSuperuser, &u.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*repository.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, repository.NormalizeEmail(email)))
}

func (r *userRepo) GetByExternalID(ctx context.Context, externalID string) (*repository.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE yandex_id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, externalID))
}

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	email := repository.NormalizeEmail(in.Email)
	if !repository.ValidEmail(email) {
		return nil, fmt.Errorf("%w: %q", repository.ErrInvalidEmail, email)
	}
	if !repository.ValidUsername(in.Username) {
		return nil, fmt.Errorf("%w: username %q", repository.ErrInvalidInput, in.Username)
	}

	const query = `
		INSERT INTO users (email, username, hashed_password, yandex_id, is_active, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query,
		email, in.Username, in.HashedPassword, in.ExternalID, !in.Inactive, in.IsSuperuser,
	))
}

// Update builds the SET list from the non-nil fields only.
func (r *userRepo) Update(ctx context.Context, id int64, in repository.UpdateUserInput) (*repository.User, error) {
	if in.Empty() {
		return r.GetByID(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if in.Email != nil {
		email := repository.NormalizeEmail(*in.Email)
		if !repository.ValidEmail(email) {
			return nil, fmt.Errorf("%w: %q", repository.ErrInvalidEmail, email)
		}
		add("email", email)
	}
	if in.Username != nil {
		if !repository.ValidUsername(*in.Username) {
			return nil, fmt.Errorf("%w: username %q", repository.ErrInvalidInput, *in.Username)
		}
		add("username", *in.Username)
	}
	if in.HashedPassword != nil {
		add("hashed_password", *in.HashedPassword)
	}
	if in.ExternalID != nil {
		add("yandex_id", *in.ExternalID)
	}
	if in.IsActive != nil {
		add("is_active", *in.IsActive)
	}
	if in.IsSuperuser != nil {
		add("is_superuser", *in.IsSuperuser)
	}
	args = append(args, id)

	query := `UPDATE users SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, args...))
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepo) List(ctx context.Context, f repository.ListFilter) ([]repository.User, error) {
	f = f.Normalize()
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id OFFSET $1 LIMIT $2`
	rows, err := r.pool.Query(ctx, query, f.Skip, f.Limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []repository.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

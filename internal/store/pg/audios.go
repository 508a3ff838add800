package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/audiohub/internal/domain/repository"
)

type audioRepo struct{ pool *pgxpool.Pool }

const audioColumns = `id, name, path, owner_id, size, content_type, created_at`

func scanAudio(row pgx.Row) (*repository.Audio, error) {
	var a repository.Audio
	if err := row.Scan(&a.ID, &a.Name, &a.Path, &a.OwnerID, &a.Size, &a.ContentType, &a.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (r *audioRepo) Create(ctx context.Context, in repository.CreateAudioInput) (*repository.Audio, error) {
	const query = `
		INSERT INTO audios (name, path, owner_id, size, content_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + audioColumns
	return scanAudio(r.pool.QueryRow(ctx, query, in.Name, in.Path, in.OwnerID, in.Size, in.ContentType))
}

func (r *audioRepo) GetForOwner(ctx context.Context, id, ownerID int64) (*repository.Audio, error) {
	const query = `SELECT ` + audioColumns + ` FROM audios WHERE id = $1 AND owner_id = $2`
	return scanAudio(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *audioRepo) ListByOwner(ctx context.Context, ownerID int64, f repository.ListFilter) ([]repository.Audio, error) {
	f = f.Normalize()
	const query = `
		SELECT ` + audioColumns + ` FROM audios
		WHERE owner_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3`
	rows, err := r.pool.Query(ctx, query, ownerID, f.Skip, f.Limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []repository.Audio
	for rows.Next() {
		a, err := scanAudio(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *audioRepo) Rename(ctx context.Context, id, ownerID int64, name string) (*repository.Audio, error) {
	const query = `
		UPDATE audios SET name = $3
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + audioColumns
	return scanAudio(r.pool.QueryRow(ctx, query, id, ownerID, name))
}

func (r *audioRepo) Delete(ctx context.Context, id, ownerID int64) error {
	const query = `DELETE FROM audios WHERE id = $1 AND owner_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

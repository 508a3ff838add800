package repository

import (
	"context"
	"time"
)

// Audio is an uploaded file owned by a user. Path is the blob store key.
type Audio struct {
	ID          int64
	Name        string
	Path        string
	OwnerID     int64
	Size        int64
	ContentType string
	CreatedAt   time.Time
}

type CreateAudioInput struct {
	Name        string
	Path        string
	OwnerID     int64
	Size        int64
	ContentType string
}

// AudioRepository persists audio metadata. Every mutation is scoped to the
// owner: a row owned by someone else behaves as ErrNotFound.
type AudioRepository interface {
	Create(ctx context.Context, in CreateAudioInput) (*Audio, error)
	GetForOwner(ctx context.Context, id, ownerID int64) (*Audio, error)
	ListByOwner(ctx context.Context, ownerID int64, filter ListFilter) ([]Audio, error)
	Rename(ctx context.Context, id, ownerID int64, name string) (*Audio, error)
	Delete(ctx context.Context, id, ownerID int64) error
}

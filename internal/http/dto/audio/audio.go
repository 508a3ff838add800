// Package audio contains DTOs for the audio endpoints.
package audio

import (
	"time"

	"github.com/dropDatabas3/audiohub/internal/domain/repository"
)

type AudioOut struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	OwnerID     int64     `json:"owner_id"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type RenameRequest struct {
	Name string `json:"name"`
}

func From(a *repository.Audio) AudioOut {
	return AudioOut{
		ID:          a.ID,
		Name:        a.Name,
		Path:        a.Path,
		OwnerID:     a.OwnerID,
		Size:        a.Size,
		ContentType: a.ContentType,
		CreatedAt:   a.CreatedAt,
	}
}

func ListFrom(in []repository.Audio) []AudioOut {
	out := make([]AudioOut, 0, len(in))
	for i := range in {
		out = append(out, From(&in[i]))
	}
	return out
}

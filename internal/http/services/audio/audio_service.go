// Package audio manages uploaded audio files: metadata in the repository,
// bytes in the blob store.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/audiohub/internal/blob"
	"github.com/dropDatabas3/audiohub/internal/domain/repository"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
)

const DefaultMaxSize int64 = 10 << 20

var DefaultExtensions = []string{"mp3", "wav", "ogg"}

var (
	ErrInvalidExtension = errors.New("unsupported file extension")
	ErrFileTooLarge     = errors.New("file too large")
	ErrNotFound         = errors.New("audio not found")
	ErrInvalidName      = errors.New("invalid audio name")
	ErrMissingFile      = errors.New("file is required")
)

// UploadInput describes one uploaded file. Size is -1 when unknown.
type UploadInput struct {
	Filename string
	Name     string
	Size     int64
	Body     io.Reader
}

type Service interface {
	Upload(ctx context.Context, ownerID int64, in UploadInput) (*repository.Audio, error)
	List(ctx context.Context, ownerID int64, f repository.ListFilter) ([]repository.Audio, error)
	Get(ctx context.Context, ownerID, id int64) (*repository.Audio, error)
	Rename(ctx context.Context, ownerID, id int64, name string) (*repository.Audio, error)
	Delete(ctx context.Context, ownerID, id int64) error
	// DeleteAllForOwner removes every blob owned by ownerID. Rows go with
	// the owner through the cascade.
	DeleteAllForOwner(ctx context.Context, ownerID int64) error
}

type Deps struct {
	Audios            repository.AudioRepository
	Blobs             blob.Store
	MaxSize           int64
	AllowedExtensions []string
	// NewID defaults to a random UUID; tests pin it.
	NewID func() string
}

type service struct {
	deps    Deps
	allowed map[string]struct{}
}

func NewService(d Deps) Service {
	if d.MaxSize <= 0 {
		d.MaxSize = DefaultMaxSize
	}
	if len(d.AllowedExtensions) == 0 {
		d.AllowedExtensions = DefaultExtensions
	}
	if d.NewID == nil {
		d.NewID = func() string { return uuid.NewString() }
	}
	allowed := make(map[string]struct{}, len(d.AllowedExtensions))
	for _, e := range d.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
	}
	return &service{deps: d, allowed: allowed}
}

func (s *service) Upload(ctx context.Context, ownerID int64, in UploadInput) (*repository.Audio, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("audio"),
		logger.Op("Upload"),
		logger.UserID(ownerID),
	)

	if in.Body == nil || in.Filename == "" {
		return nil, ErrMissingFile
	}
	ext := Extension(in.Filename)
	if _, ok := s.allowed[ext]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}
	if in.Size > s.deps.MaxSize {
		return nil, ErrFileTooLarge
	}

	name := displayName(in.Name, in.Filename, ext)
	key := fmt.Sprintf("audios/user_%d/%s_%s.%s",
		ownerID, strings.TrimSuffix(name, "."+ext), shortID(s.deps.NewID()), ext)
	ct := contentType(ext)

	body := &limitedReader{r: in.Body, left: s.deps.MaxSize}
	if err := s.deps.Blobs.Put(ctx, key, body, in.Size, ct); err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, fmt.Errorf("store blob: %w", err)
	}

	a, err := s.deps.Audios.Create(ctx, repository.CreateAudioInput{
		Name:        name,
		Path:        key,
		OwnerID:     ownerID,
		Size:        body.read,
		ContentType: ct,
	})
	if err != nil {
		if derr := s.deps.Blobs.Delete(ctx, key); derr != nil {
			log.Warn("orphan blob left after failed insert", logger.String("key", key), logger.Err(derr))
		}
		return nil, fmt.Errorf("save audio: %w", err)
	}
	log.Info("audio uploaded", logger.AudioID(a.ID), logger.String("key", key))
	return a, nil
}

func (s *service) List(ctx context.Context, ownerID int64, f repository.ListFilter) ([]repository.Audio, error) {
	return s.deps.Audios.ListByOwner(ctx, ownerID, f.Normalize())
}

func (s *service) Get(ctx context.Context, ownerID, id int64) (*repository.Audio, error) {
	a, err := s.deps.Audios.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (s *service) Rename(ctx context.Context, ownerID, id int64, name string) (*repository.Audio, error) {
	cur, err := s.deps.Audios.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, notFound(err)
	}
	ext := Extension(cur.Name)
	clean := SanitizeName(strings.TrimSpace(name))
	clean = strings.TrimSuffix(clean, "."+ext)
	if strings.Trim(clean, ".") == "" {
		return nil, ErrInvalidName
	}
	if ext != "" {
		clean += "." + ext
	}
	a, err := s.deps.Audios.Rename(ctx, id, ownerID, clean)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (s *service) Delete(ctx context.Context, ownerID, id int64) error {
	a, err := s.deps.Audios.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return notFound(err)
	}
	if err := s.deps.Audios.Delete(ctx, id, ownerID); err != nil {
		return notFound(err)
	}
	if err := s.deps.Blobs.Delete(ctx, a.Path); err != nil && !errors.Is(err, blob.ErrNotFound) {
		logger.From(ctx).Warn("blob delete failed",
			logger.Component("audio"), logger.AudioID(id), logger.String("key", a.Path), logger.Err(err))
	}
	return nil
}

func (s *service) DeleteAllForOwner(ctx context.Context, ownerID int64) error {
	for {
		page, err := s.deps.Audios.ListByOwner(ctx, ownerID, repository.ListFilter{Limit: repository.MaxListLimit})
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}
		for _, a := range page {
			if err := s.Delete(ctx, ownerID, a.ID); err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
		}
	}
}

func notFound(err error) error {
	if repository.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// limitedReader fails with ErrFileTooLarge once more than left bytes are read.
type limitedReader struct {
	r    io.Reader
	left int64
	read int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.left < 0 {
		return 0, ErrFileTooLarge
	}
	if int64(len(p)) > l.left+1 {
		p = p[:l.left+1]
	}
	n, err := l.r.Read(p)
	l.read += int64(n)
	l.left -= int64(n)
	if l.left < 0 {
		return n, ErrFileTooLarge
	}
	return n, err
}

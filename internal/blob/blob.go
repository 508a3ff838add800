// Package blob stores uploaded audio files. Keys are slash-separated relative
// paths such as "audios/user_7/song_1a2b3c4d.mp3".
package blob

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	ErrNotFound   = errors.New("blob: not found")
	ErrInvalidKey = errors.New("blob: invalid key")
)

// Store is implemented by Local and s3.Store.
type Store interface {
	// Put writes r under key, replacing any existing object. size may be -1
	// when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Delete removes key. Deleting a missing key returns ErrNotFound.
	Delete(ctx context.Context, key string) error

	Name() string
}

// CleanKey rejects absolute keys and any key that escapes the root.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	c := path.Clean(key)
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", ErrInvalidKey
	}
	return c, nil
}

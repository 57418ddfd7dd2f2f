// Package assets stores uploaded recipe images outside the record store.
// Two drivers exist: a local directory and an S3-compatible bucket.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DriverFS = "fs"
	DriverS3 = "s3"
)

// ErrInvalidKey is returned for keys a store refuses to address.
var ErrInvalidKey = errors.New("invalid asset key")

// Info describes a stored object.
type Info struct {
	Key         string
	Size        int64
	ContentType string
}

// Store persists opaque objects by key. Open reports common.ErrorNotFound for
// a missing key. Delete is idempotent and reports whether anything was removed.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, *Info, error)
	Delete(ctx context.Context, key string) (bool, error)
	Driver() string
}

// Presigner is implemented by stores that can hand out direct download URLs.
type Presigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// NewKey returns a fresh, never reused object key for an upload with the
// given file extension, e.g. recipes/2025/9/1/<uuid>.png.
func NewKey(ext string) string {
	d := time.Now()
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("recipes/%d/%d/%d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

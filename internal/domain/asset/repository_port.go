// internal/domain/asset/repository_port.go
package asset

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("asset: not found")
	ErrInvalidName = errors.New("asset: invalid name")
)

// Object is an opened static asset. Callers must close Body.
type Object struct {
	Name        string
	ContentType string
	Size        int64
	UpdatedAt   time.Time
	Body        io.ReadCloser
}

// Store opens frame assets (icon, splash, images) by slash-separated name.
type Store interface {
	Open(ctx context.Context, name string) (Object, error)
}

// CleanName normalizes a request path into an object name and rejects
// traversal ("..") and empty names.
func CleanName(p string) (string, error) {
	p = strings.TrimSpace(p)
	if strings.Contains(p, "..") {
		return "", ErrInvalidName
	}
	name := strings.TrimLeft(path.Clean("/"+p), "/")
	if name == "" || name == "." {
		return "", ErrInvalidName
	}
	return name, nil
}

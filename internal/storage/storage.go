// Package storage holds the file stores accepted uploads are written to.
package storage

import (
	"context"
	"io"
)

// FileStore persists uploaded files under a caller-chosen name. Save must
// leave nothing behind when it fails.
type FileStore interface {
	Save(ctx context.Context, name string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
}

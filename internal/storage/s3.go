package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/Jascfer/allonetoplulugu-sub001/pkg/s3"
)

const s3KeyPrefix = "uploads/"

type S3Store struct {
	client *s3.Client
}

func NewS3Store(client *s3.Client) *S3Store {
	return &S3Store{client: client}
}

// Save buffers the body before uploading; the SDK needs a seekable body to
// sign the request. Bodies are bounded by the upload size limit.
func (s *S3Store) Save(ctx context.Context, name string, body io.Reader, contentType string) (string, error) {
	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, body); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("upload cancelled: %w", err)
	}
	return s.client.PutObject(ctx, s3KeyPrefix+name, bytes.NewReader(buf.Bytes()), contentType)
}

func (s *S3Store) Delete(ctx context.Context, name string) error {
	return s.client.DeleteObject(ctx, s3KeyPrefix+name)
}

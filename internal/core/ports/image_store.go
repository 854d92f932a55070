package ports

import (
	"context"
	"io"
)

// ImageStore keeps uploaded image files addressed by filename.
// Delete and Open report domain.ErrImageNotFound for an absent file.
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) error
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
	Delete(ctx context.Context, filename string) error
}

// ImageCleaner schedules best-effort removal of an image file.
type ImageCleaner interface {
	Enqueue(filename string)
}

type ImageService interface {
	Upload(ctx context.Context, originalName string, r io.Reader) (string, error)
	Delete(ctx context.Context, imageURL string) error
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
}

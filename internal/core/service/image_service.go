package service

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/travelbook/story-api/internal/core/domain"
	"github.com/travelbook/story-api/internal/core/ports"
	"github.com/travelbook/story-api/internal/pkg/metrics"
)

// ImageService stores uploaded images and builds their public URLs.
type ImageService struct {
	store   ports.ImageStore
	baseURL string
	log     zerolog.Logger
}

// NewImageService returns an ImageService publishing files under
// <baseURL>/uploads/.
func NewImageService(store ports.ImageStore, baseURL string, log zerolog.Logger) *ImageService {
	return &ImageService{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// Upload saves r under a generated filename that keeps the original extension
// and returns the public URL of the stored file.
func (s *ImageService) Upload(ctx context.Context, originalName string, r io.Reader) (string, error) {
	filename := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))

	if err := s.store.Save(ctx, filename, r); err != nil {
		metrics.ImageUploadsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("filename", filename).Msg("image upload failed")
		return "", err
	}

	metrics.ImageUploadsTotal.WithLabelValues("success").Inc()
	return s.baseURL + "/uploads/" + filename, nil
}

// Delete removes the file named by the last path element of imageURL.
func (s *ImageService) Delete(ctx context.Context, imageURL string) error {
	name := domain.ImageFilename(imageURL)
	if name == "" {
		return domain.ErrImageNotFound
	}
	return s.store.Delete(ctx, name)
}

func (s *ImageService) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	name := domain.ImageFilename(filename)
	if name == "" {
		return nil, domain.ErrImageNotFound
	}
	return s.store.Open(ctx, name)
}

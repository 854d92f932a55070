package ports

import (
	"context"

	"github.com/travelbook/story-api/internal/core/domain"
)

// StoryInput is the DTO passed from the transport layer for add and edit.
// VisitedDate is the raw epoch-millisecond value as sent by the client.
type StoryInput struct {
	Title           string
	Story           string
	VisitedLocation []string
	ImageURL        string
	VisitedDate     string
}

// StoryService implements the travel-story use cases for a session user.
type StoryService interface {
	AddStory(ctx context.Context, userID string, in StoryInput) (*domain.Story, error)
	ListMine(ctx context.Context, userID string) ([]*domain.Story, error)
	ListAll(ctx context.Context) ([]*domain.Story, error)
	EditStory(ctx context.Context, id, userID string, in StoryInput) (*domain.Story, error)
	UpdateFavourite(ctx context.Context, id, userID string, isFavourite bool) (*domain.Story, error)
	DeleteStory(ctx context.Context, id, userID string) error
	Search(ctx context.Context, userID, query string) ([]*domain.Story, error)
	FilterByDate(ctx context.Context, userID, startDate, endDate string) ([]*domain.Story, error)
}

package ports

import (
	"context"
	"time"

	"github.com/travelbook/story-api/internal/core/domain"
)

// ListStoriesFilter carries the query parameters for listing stories.
type ListStoriesFilter struct {
	UserID string     // empty = every user's stories
	Query  string     // optional: case-insensitive substring on title, story or visitedLocation
	From   *time.Time // optional: visitedDate >= From
	To     *time.Time // optional: visitedDate <= To
}

// StoryRepository defines persistence operations for travel stories.
// Every single-story operation is scoped by both story id and owner id;
// a story owned by someone else is reported as domain.ErrStoryNotFound.
type StoryRepository interface {
	Create(ctx context.Context, s *domain.Story) error
	// UpdateContent writes the editable fields of s (everything except the
	// favourite flag) and returns the stored story.
	UpdateContent(ctx context.Context, s *domain.Story) (*domain.Story, error)
	// SetFavourite writes only the favourite flag and returns the stored story.
	SetFavourite(ctx context.Context, id, userID string, isFavourite bool) (*domain.Story, error)
	Delete(ctx context.Context, id, userID string) (*domain.Story, error)
	// List returns matching stories, favourites first, then in insertion order.
	List(ctx context.Context, filter ListStoriesFilter) ([]*domain.Story, error)
}

// StoryCache stores rendered story listings. A miss is reported with ok=false.
//
// Every listing key has a generation that Invalidate advances. A loader reads
// the generation before querying the store and writes its result with
// SetIfGeneration, which stores nothing once the listing has been invalidated
// in between.
type StoryCache interface {
	Get(ctx context.Context, key string) (stories []*domain.Story, ok bool, err error)
	Generation(ctx context.Context, key string) (int64, error)
	SetIfGeneration(ctx context.Context, key string, gen int64, stories []*domain.Story) (stored bool, err error)
	Invalidate(ctx context.Context, keys ...string) error
}

package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/travelbook/story-api/internal/core/domain"
	"github.com/travelbook/story-api/internal/core/ports"
	"github.com/travelbook/story-api/internal/pkg/metrics"
)

const allStoriesKey = "stories:all"

func userStoriesKey(userID string) string {
	return "stories:user:" + userID
}

// StoryService implements the travel story use cases. cache and cleaner are
// optional; a nil cache reads straight from the repository and a nil cleaner
// skips image cleanup.
type StoryService struct {
	repo           ports.StoryRepository
	cache          ports.StoryCache
	cleaner        ports.ImageCleaner
	placeholderURL string
	group          singleflight.Group
	log            zerolog.Logger
}

func NewStoryService(
	repo ports.StoryRepository,
	cache ports.StoryCache,
	cleaner ports.ImageCleaner,
	placeholderURL string,
	log zerolog.Logger,
) *StoryService {
	return &StoryService{
		repo:           repo,
		cache:          cache,
		cleaner:        cleaner,
		placeholderURL: placeholderURL,
		log:            log,
	}
}

func (s *StoryService) AddStory(ctx context.Context, userID string, in ports.StoryInput) (*domain.Story, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.Title == "" || in.Story == "" || in.VisitedLocation == nil || in.ImageURL == "" || in.VisitedDate == "" {
		return nil, domain.NewValidationError("All fields are required")
	}
	visited, err := parseEpochMillis(in.VisitedDate)
	if err != nil {
		return nil, domain.NewValidationError("Invalid visitedDate format")
	}

	story := &domain.Story{
		UserID:          userID,
		Title:           in.Title,
		Story:           in.Story,
		VisitedLocation: in.VisitedLocation,
		ImageURL:        in.ImageURL,
		VisitedDate:     visited,
		CreatedOn:       time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, story); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to create story")
		return nil, err
	}

	metrics.StoriesCreatedTotal.Inc()
	s.invalidate(ctx, userID)
	s.log.Info().Str("story_id", story.ID).Str("user_id", userID).Msg("story created")
	return story, nil
}

// ListMine returns the user's stories, favourites first.
func (s *StoryService) ListMine(ctx context.Context, userID string) ([]*domain.Story, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.cachedList(ctx, userStoriesKey(userID), ports.ListStoriesFilter{UserID: userID})
}

// ListAll returns every user's stories, favourites first.
func (s *StoryService) ListAll(ctx context.Context) ([]*domain.Story, error) {
	return s.cachedList(ctx, allStoriesKey, ports.ListStoriesFilter{})
}

// EditStory overwrites the content fields of an owned story; the favourite
// flag is not part of an edit. An empty image URL is replaced by the
// placeholder asset.
func (s *StoryService) EditStory(ctx context.Context, id, userID string, in ports.StoryInput) (*domain.Story, error) {
	if in.Title == "" || in.Story == "" || in.VisitedLocation == nil || in.VisitedDate == "" {
		return nil, domain.NewValidationError("All fields are required")
	}
	visited, err := parseEpochMillis(in.VisitedDate)
	if err != nil {
		return nil, domain.NewValidationError("Invalid visitedDate format")
	}

	imageURL := in.ImageURL
	if imageURL == "" {
		imageURL = s.placeholderURL
	}

	story, err := s.repo.UpdateContent(ctx, &domain.Story{
		ID:              id,
		UserID:          userID,
		Title:           in.Title,
		Story:           in.Story,
		VisitedLocation: in.VisitedLocation,
		ImageURL:        imageURL,
		VisitedDate:     visited,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	return story, nil
}

func (s *StoryService) UpdateFavourite(ctx context.Context, id, userID string, isFavourite bool) (*domain.Story, error) {
	story, err := s.repo.SetFavourite(ctx, id, userID, isFavourite)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	return story, nil
}

// DeleteStory removes the record and then schedules removal of its image
// file. The file cleanup never affects the outcome of the delete.
func (s *StoryService) DeleteStory(ctx context.Context, id, userID string) error {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}

	metrics.StoriesDeletedTotal.Inc()
	s.invalidate(ctx, userID)
	s.log.Info().Str("story_id", id).Str("user_id", userID).Msg("story deleted")

	if s.cleaner == nil || deleted.ImageURL == s.placeholderURL {
		return nil
	}
	if name := domain.ImageFilename(deleted.ImageURL); name != "" {
		s.cleaner.Enqueue(name)
	}
	return nil
}

// Search matches query case-insensitively against title, story text and
// visited locations.
func (s *StoryService) Search(ctx context.Context, userID, query string) ([]*domain.Story, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("query is required")
	}
	return s.repo.List(ctx, ports.ListStoriesFilter{UserID: userID, Query: query})
}

// FilterByDate returns owned stories visited within [startDate, endDate],
// both given as epoch milliseconds.
func (s *StoryService) FilterByDate(ctx context.Context, userID, startDate, endDate string) ([]*domain.Story, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	from, err := parseEpochMillis(startDate)
	if err != nil {
		return nil, fmt.Errorf("filter stories: invalid start date %q", startDate)
	}
	to, err := parseEpochMillis(endDate)
	if err != nil {
		return nil, fmt.Errorf("filter stories: invalid end date %q", endDate)
	}
	return s.repo.List(ctx, ports.ListStoriesFilter{UserID: userID, From: &from, To: &to})
}

// cachedList serves a listing from the cache, loading it from the repository
// on a miss. Loads are keyed by listing generation, so a caller that arrives
// after a write never shares a load that started before it, and a load that
// raced a write is returned but not cached.
func (s *StoryService) cachedList(ctx context.Context, key string, filter ports.ListStoriesFilter) ([]*domain.Story, error) {
	if s.cache == nil {
		return s.repo.List(ctx, filter)
	}

	stories, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.StoryCacheRequestsTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Str("key", key).Msg("story cache read failed, falling back to store")
		return s.repo.List(ctx, filter)
	case ok:
		metrics.StoryCacheRequestsTotal.WithLabelValues("hit").Inc()
		return stories, nil
	default:
		metrics.StoryCacheRequestsTotal.WithLabelValues("miss").Inc()
	}

	gen, err := s.cache.Generation(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("story cache generation read failed, falling back to store")
		return s.repo.List(ctx, filter)
	}

	flight := key + "@" + strconv.FormatInt(gen, 10)
	v, err, _ := s.group.Do(flight, func() (any, error) {
		loaded, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		stored, err := s.cache.SetIfGeneration(ctx, key, gen, loaded)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("key", key).Msg("story cache write failed")
		case !stored:
			s.log.Debug().Str("key", key).Msg("listing changed during load, not cached")
		}
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Story), nil
}

func (s *StoryService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userStoriesKey(userID), allStoriesKey); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("story cache invalidation failed")
	}
}

// parseEpochMillis reads an integer millisecond timestamp.
func parseEpochMillis(raw string) (time.Time, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

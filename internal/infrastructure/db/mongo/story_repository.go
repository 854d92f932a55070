package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/travelbook/story-api/internal/core/domain"
	"github.com/travelbook/story-api/internal/core/ports"
)

const collectionStories = "travelstories"

// favouriteFirst sorts favourites first and keeps insertion order otherwise;
// ObjectIDs grow monotonically with creation time.
var favouriteFirst = bson.D{{Key: "isFavourite", Value: -1}, {Key: "_id", Value: 1}}

type StoryRepository struct {
	col *mongo.Collection
}

func NewStoryRepository(db *mongo.Database) *StoryRepository {
	return &StoryRepository{col: db.Collection(collectionStories)}
}

type mongoStory struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          string             `bson:"userId"`
	Title           string             `bson:"title"`
	Story           string             `bson:"story"`
	VisitedLocation []string           `bson:"visitedLocation"`
	ImageURL        string             `bson:"imageUrl"`
	VisitedDate     time.Time          `bson:"visitedDate"`
	IsFavourite     bool               `bson:"isFavourite"`
	CreatedOn       time.Time          `bson:"createdOn"`
}

func (ms *mongoStory) toDomain() *domain.Story {
	locations := ms.VisitedLocation
	if locations == nil {
		locations = []string{}
	}
	return &domain.Story{
		ID:              ms.ID.Hex(),
		UserID:          ms.UserID,
		Title:           ms.Title,
		Story:           ms.Story,
		VisitedLocation: locations,
		ImageURL:        ms.ImageURL,
		VisitedDate:     ms.VisitedDate.UTC(),
		IsFavourite:     ms.IsFavourite,
		CreatedOn:       ms.CreatedOn.UTC(),
	}
}

// Create inserts s and assigns its generated id.
func (r *StoryRepository) Create(ctx context.Context, s *domain.Story) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid := primitive.NewObjectID()
	doc := mongoStory{
		ID:              oid,
		UserID:          s.UserID,
		Title:           s.Title,
		Story:           s.Story,
		VisitedLocation: s.VisitedLocation,
		ImageURL:        s.ImageURL,
		VisitedDate:     s.VisitedDate,
		IsFavourite:     s.IsFavourite,
		CreatedOn:       s.CreatedOn,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert story: %w", err)
	}
	s.ID = oid.Hex()
	return nil
}

// UpdateContent sets the editable fields of an owned story and returns the
// updated document. The favourite flag is left untouched.
func (r *StoryRepository) UpdateContent(ctx context.Context, s *domain.Story) (*domain.Story, error) {
	return r.updateOwned(ctx, s.ID, s.UserID, contentUpdate(s))
}

// SetFavourite sets only the favourite flag of an owned story.
func (r *StoryRepository) SetFavourite(ctx context.Context, id, userID string, isFavourite bool) (*domain.Story, error) {
	return r.updateOwned(ctx, id, userID, favouriteUpdate(isFavourite))
}

func (r *StoryRepository) updateOwned(ctx context.Context, id, userID string, update bson.M) (*domain.Story, error) {
	filter, ok := ownedFilter(id, userID)
	if !ok {
		return nil, domain.ErrStoryNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ms mongoStory
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStoryNotFound
		}
		return nil, fmt.Errorf("update story: %w", err)
	}
	return ms.toDomain(), nil
}

// Delete removes an owned story and returns the removed document.
func (r *StoryRepository) Delete(ctx context.Context, id, userID string) (*domain.Story, error) {
	filter, ok := ownedFilter(id, userID)
	if !ok {
		return nil, domain.ErrStoryNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoStory
	if err := r.col.FindOneAndDelete(ctx, filter).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStoryNotFound
		}
		return nil, fmt.Errorf("delete story: %w", err)
	}
	return ms.toDomain(), nil
}

func (r *StoryRepository) List(ctx context.Context, f ports.ListStoriesFilter) ([]*domain.Story, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, buildListFilter(f), options.Find().SetSort(favouriteFirst))
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer cur.Close(ctx)

	stories := make([]*domain.Story, 0)
	for cur.Next(ctx) {
		var ms mongoStory
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode story: %w", err)
		}
		stories = append(stories, ms.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return stories, nil
}

// EnsureIndexes creates the indexes backing owner listings and date filters.
func (r *StoryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isFavourite", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "visitedDate", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// ownedFilter scopes a single-story query to its owner. An id that is not an
// ObjectID cannot match any story.
func ownedFilter(id, userID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil || userID == "" {
		return nil, false
	}
	return bson.M{"_id": oid, "userId": userID}, true
}

func buildListFilter(f ports.ListStoriesFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.Query != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"story": pattern},
			bson.M{"visitedLocation": pattern},
		}
	}
	if f.From != nil || f.To != nil {
		dateRange := bson.M{}
		if f.From != nil {
			dateRange["$gte"] = *f.From
		}
		if f.To != nil {
			dateRange["$lte"] = *f.To
		}
		filter["visitedDate"] = dateRange
	}
	return filter
}

func contentUpdate(s *domain.Story) bson.M {
	return bson.M{"$set": bson.M{
		"title":           s.Title,
		"story":           s.Story,
		"visitedLocation": s.VisitedLocation,
		"imageUrl":        s.ImageURL,
		"visitedDate":     s.VisitedDate,
	}}
}

func favouriteUpdate(isFavourite bool) bson.M {
	return bson.M{"$set": bson.M{"isFavourite": isFavourite}}
}

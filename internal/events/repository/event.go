package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	eventserrors "eventease/internal/events/errors"
	"eventease/pkg/config"
	"eventease/pkg/model"
)

const (
	CollectionName = "Events"
)

type mongoEventRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByEventID(ctx context.Context, eventID string) (*model.Event, error)
	FindMany(ctx context.Context, filter model.EventFilter, limit int, offset int64) ([]*model.Event, error)
	Count(ctx context.Context, filter model.EventFilter) (int64, error)
	Update(ctx context.Context, eventID string, fields, guard bson.M) (*model.Event, error)
	Delete(ctx context.Context, eventID string) error
	ExistsByEventID(ctx context.Context, eventID string) (bool, error)
}

func NewMongoEventRepository(cfg *config.Config) EventRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoEventRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context
// unchanged with a no-op cancel function.
func (r *mongoEventRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoEventRepository) Create(ctx context.Context, event *model.Event) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	event.CreatedAt = now
	event.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return eventserrors.ErrEventIDTaken
		}
		return fmt.Errorf("failed to create event: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		event.ID = oid.Hex()
	}
	return nil
}

func (r *mongoEventRepository) FindByEventID(ctx context.Context, eventID string) (*model.Event, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if !strings.HasPrefix(eventID, "EVT-") {
		return nil, fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, eventID)
	}

	var event model.Event
	err := r.collection.FindOne(ctx, bson.M{"event_id": eventID}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, eventserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	return &event, nil
}

func (r *mongoEventRepository) FindMany(ctx context.Context, filter model.EventFilter, limit int, offset int64) ([]*model.Event, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildEventFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*model.Event
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}

	return events, nil
}

func (r *mongoEventRepository) Count(ctx context.Context, filter model.EventFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildEventFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

func buildEventFilter(f model.EventFilter) bson.M {
	filter := bson.M{}

	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.LocationType != "" {
		filter["location_type"] = f.LocationType
	}

	if f.DateFrom != nil || f.DateTo != nil {
		dateFilter := bson.M{}
		if f.DateFrom != nil {
			dateFilter["$gte"] = *f.DateFrom
		}
		if f.DateTo != nil {
			dateFilter["$lte"] = *f.DateTo
		}
		filter["date"] = dateFilter
	}

	return filter
}

// Update applies fields to a single event. Guard entries are merged into
// the match filter, so a write whose precondition no longer holds (for
// example a capacity shrink after a concurrent reservation) matches
// nothing and surfaces as ErrUpdateConflict instead of committing.
func (r *mongoEventRepository) Update(ctx context.Context, eventID string, fields, guard bson.M) (*model.Event, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	fields["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{"event_id": eventID}
	for key, value := range guard {
		filter[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var event model.Event
	err := r.collection.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$set": fields},
		opts,
	).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if len(guard) > 0 {
				exists, existsErr := r.ExistsByEventID(ctx, eventID)
				if existsErr != nil {
					return nil, fmt.Errorf("failed to update event: %w", existsErr)
				}
				if exists {
					return nil, eventserrors.ErrUpdateConflict
				}
			}
			return nil, eventserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return &event, nil
}

func (r *mongoEventRepository) Delete(ctx context.Context, eventID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if result.DeletedCount == 0 {
		return eventserrors.ErrNotFound
	}

	return nil
}

func (r *mongoEventRepository) ExistsByEventID(ctx context.Context, eventID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"event_id": eventID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check event ID: %w", err)
	}
	return count > 0, nil
}

package ledger

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"eventease/pkg/config"
	"eventease/pkg/logger"
)

const collectionName = "Events"

type mongoSeatLedger struct {
	cfg        *config.Config
	collection *mongo.Collection
	log        *logger.Logger
}

// NewMongoSeatLedger returns a SeatLedger backed by conditional updates
// on the Events collection. A reservation is a single UpdateOne whose
// filter re-checks capacity server-side, so two concurrent reservations
// can never both take the last seat.
func NewMongoSeatLedger(cfg *config.Config, log *logger.Logger) SeatLedger {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSeatLedger{
		cfg:        cfg,
		collection: db.Collection(collectionName),
		log:        log,
	}
}

func (l *mongoSeatLedger) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (l *mongoSeatLedger) Reserve(ctx context.Context, eventID string, seats int) error {
	ctx, cancel := l.withTimeout(ctx, l.cfg.WriteTimeout)
	defer cancel()

	// The $expr guard makes check-and-increment atomic: the update
	// matches only while booked_seats + seats <= capacity.
	filter := bson.M{
		"event_id": eventID,
		"$expr": bson.M{
			"$lte": bson.A{
				bson.M{"$add": bson.A{"$booked_seats", seats}},
				"$capacity",
			},
		},
	}
	update := bson.M{
		"$inc": bson.M{"booked_seats": seats},
		"$set": bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)},
	}

	result, err := l.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}

	if result.MatchedCount == 0 {
		// Either the event is gone or the guard failed. One extra read
		// tells the caller which.
		count, err := l.collection.CountDocuments(ctx, bson.M{"event_id": eventID})
		if err != nil {
			return fmt.Errorf("failed to reserve seats: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrCapacityExceeded
	}

	return nil
}

func (l *mongoSeatLedger) Release(ctx context.Context, eventID string, seats int) error {
	ctx, cancel := l.withTimeout(ctx, l.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"event_id":     eventID,
		"booked_seats": bson.M{"$gte": seats},
	}
	update := bson.M{
		"$inc": bson.M{"booked_seats": -seats},
		"$set": bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)},
	}

	result, err := l.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}

	if result.MatchedCount > 0 {
		return nil
	}

	// The count is lower than what we are releasing. That should not
	// happen; clamp to zero rather than going negative, and leave a
	// trace for the operator.
	clampFilter := bson.M{"event_id": eventID}
	clampUpdate := bson.M{
		"$set": bson.M{
			"booked_seats": 0,
			"updated_at":   time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	clampResult, err := l.collection.UpdateOne(ctx, clampFilter, clampUpdate)
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}
	if clampResult.MatchedCount == 0 {
		return ErrNotFound
	}

	l.log.Error("seat ledger inconsistency: release exceeded booked count, clamped to zero",
		"event_id", eventID,
		"seats", seats,
	)
	return nil
}

package repos

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dodotask/dodotask-backend/internal/db"
	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/types"
)

type EventRepo interface {
	Insert(ctx context.Context, ev *types.Event) error
	CountByType(ctx context.Context, userID string, typ types.EventType, start, end time.Time) (int, error)
	// SumContextMinutes sums context.minutes over events of the given type,
	// treating a missing field as 0.
	SumContextMinutes(ctx context.Context, userID string, typ types.EventType, start, end time.Time) (int, error)
	// CountLateNight counts events in range whose hour-of-day is 0..5.
	CountLateNight(ctx context.Context, userID string, start, end time.Time) (int, error)
	// ActiveUserIDs returns the distinct users with any event since the
	// cutoff; used by the nightly rollup job.
	ActiveUserIDs(ctx context.Context, since time.Time) ([]string, error)
}

type eventRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewEventRepo(store *db.MongoService, baseLog *logger.Logger) EventRepo {
	return &eventRepo{
		coll: store.Collection(db.CollEvents),
		log:  baseLog.With("repo", "EventRepo"),
	}
}

func (r *eventRepo) Insert(ctx context.Context, ev *types.Event) error {
	if _, err := r.coll.InsertOne(ctx, ev); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func (r *eventRepo) CountByType(ctx context.Context, userID string, typ types.EventType, start, end time.Time) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"user_id": userID,
		"type":    typ,
		"ts":      bson.M{"$gte": start, "$lte": end},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s events: %w", typ, err)
	}
	return int(n), nil
}

func (r *eventRepo) SumContextMinutes(ctx context.Context, userID string, typ types.EventType, start, end time.Time) (int, error) {
	pipe := []bson.M{
		{"$match": bson.M{
			"user_id": userID,
			"type":    typ,
			"ts":      bson.M{"$gte": start, "$lte": end},
		}},
		{"$group": bson.M{
			"_id":  nil,
			"mins": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$context.minutes", 0}}},
		}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipe)
	if err != nil {
		return 0, fmt.Errorf("failed to sum context minutes: %w", err)
	}
	defer cursor.Close(ctx)
	var rows []struct {
		Mins float64 `bson:"mins"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode minute sum: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return int(rows[0].Mins), nil
}

func (r *eventRepo) CountLateNight(ctx context.Context, userID string, start, end time.Time) (int, error) {
	pipe := []bson.M{
		{"$match": bson.M{
			"user_id": userID,
			"ts":      bson.M{"$gte": start, "$lte": end},
		}},
		{"$project": bson.M{"hour": bson.M{"$hour": "$ts"}}},
		{"$match": bson.M{"hour": bson.M{"$gte": 0, "$lte": 5}}},
		{"$count": "n"},
	}
	cursor, err := r.coll.Aggregate(ctx, pipe)
	if err != nil {
		return 0, fmt.Errorf("failed to count late-night events: %w", err)
	}
	defer cursor.Close(ctx)
	var rows []struct {
		N int `bson:"n"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode late-night count: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].N, nil
}

func (r *eventRepo) ActiveUserIDs(ctx context.Context, since time.Time) ([]string, error) {
	raw, err := r.coll.Distinct(ctx, "user_id", bson.M{"ts": bson.M{"$gte": since}})
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

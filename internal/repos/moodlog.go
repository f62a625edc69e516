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

type MoodLogRepo interface {
	Insert(ctx context.Context, ml *types.MoodLog) error
	// CountNegative counts logs in range labeled negative, anxious or tired.
	CountNegative(ctx context.Context, userID string, start, end time.Time) (int, error)
}

type moodLogRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewMoodLogRepo(store *db.MongoService, baseLog *logger.Logger) MoodLogRepo {
	return &moodLogRepo{
		coll: store.Collection(db.CollMoodLogs),
		log:  baseLog.With("repo", "MoodLogRepo"),
	}
}

func (r *moodLogRepo) Insert(ctx context.Context, ml *types.MoodLog) error {
	if _, err := r.coll.InsertOne(ctx, ml); err != nil {
		return fmt.Errorf("failed to insert mood log: %w", err)
	}
	return nil
}

func (r *moodLogRepo) CountNegative(ctx context.Context, userID string, start, end time.Time) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"user_id": userID,
		"ts":      bson.M{"$gte": start, "$lte": end},
		"label":   bson.M{"$in": types.NegativeMoodLabels},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count negative moods: %w", err)
	}
	return int(n), nil
}

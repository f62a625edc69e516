package repos

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dodotask/dodotask-backend/internal/db"
	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/types"
)

type RollupRepo interface {
	// Upsert writes the rollup keyed by (user_id, date). Concurrent writers
	// for the same key converge last-write-wins; the unique index prevents
	// duplicate rows.
	Upsert(ctx context.Context, rollup *types.DailyUsageRollup) error
	// GetByDates returns only the rows that exist for the given date keys,
	// sorted most-recent-first. Missing days simply produce no row; the
	// streak detector depends on that.
	GetByDates(ctx context.Context, userID string, dates []string) ([]types.DailyUsageRollup, error)
}

type rollupRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewRollupRepo(store *db.MongoService, baseLog *logger.Logger) RollupRepo {
	return &rollupRepo{
		coll: store.Collection(db.CollDailyRollups),
		log:  baseLog.With("repo", "RollupRepo"),
	}
}

func (r *rollupRepo) Upsert(ctx context.Context, rollup *types.DailyUsageRollup) error {
	filter := bson.M{"user_id": rollup.UserID, "date": rollup.Date}
	update := bson.M{"$set": bson.M{
		"user_id":                rollup.UserID,
		"date":                   rollup.Date,
		"tasks_completed":        rollup.TasksCompleted,
		"overdue_count":          rollup.OverdueCount,
		"avg_priority_completed": rollup.AvgPriorityCompleted,
		"total_focus_minutes":    rollup.TotalFocusMinutes,
		"breaks_taken":           rollup.BreaksTaken,
		"hydration_count":        rollup.HydrationCount,
		"sleep_minutes":          rollup.SleepMinutes,
		"mood_negative_count":    rollup.MoodNegativeCount,
		"late_night_usage":       rollup.LateNightUsage,
	}}
	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to upsert daily rollup: %w", err)
	}
	return nil
}

func (r *rollupRepo) GetByDates(ctx context.Context, userID string, dates []string) ([]types.DailyUsageRollup, error) {
	filter := bson.M{"user_id": userID, "date": bson.M{"$in": dates}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rollups: %w", err)
	}
	defer cursor.Close(ctx)
	var out []types.DailyUsageRollup
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode rollups: %w", err)
	}
	return out, nil
}

package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dodotask/dodotask-backend/internal/db"
	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/types"
)

type TaskRepo interface {
	Insert(ctx context.Context, task *types.Task) error
	GetByID(ctx context.Context, userID, taskID string) (*types.Task, error)
	ListByUser(ctx context.Context, userID string, status types.TaskStatus, limit int64) ([]types.Task, error)
	MarkDone(ctx context.Context, userID, taskID string, completedAt time.Time) error
	// CompletedStats returns the count and mean priority of tasks completed
	// inside [start, end]. A nil average means no completions in range.
	CompletedStats(ctx context.Context, userID string, start, end time.Time) (int, *float64, error)
	// CompletionSamples returns up to limit completed tasks of the same
	// category/priority that have both completed_at and due_date set,
	// projected loosely so mixed date encodings survive decoding.
	CompletionSamples(ctx context.Context, userID string, category types.TaskCategory, priority int, limit int64) ([]types.CompletionSample, error)
}

type taskRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewTaskRepo(store *db.MongoService, baseLog *logger.Logger) TaskRepo {
	return &taskRepo{
		coll: store.Collection(db.CollTasks),
		log:  baseLog.With("repo", "TaskRepo"),
	}
}

func (r *taskRepo) Insert(ctx context.Context, task *types.Task) error {
	if _, err := r.coll.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (r *taskRepo) GetByID(ctx context.Context, userID, taskID string) (*types.Task, error) {
	var task types.Task
	err := r.coll.FindOne(ctx, bson.M{"task_id": taskID, "user_id": userID}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	return &task, nil
}

func (r *taskRepo) ListByUser(ctx context.Context, userID string, status types.TaskStatus, limit int64) ([]types.Task, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer cursor.Close(ctx)
	var out []types.Task
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return out, nil
}

func (r *taskRepo) MarkDone(ctx context.Context, userID, taskID string, completedAt time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"task_id": taskID, "user_id": userID},
		bson.M{"$set": bson.M{"status": types.TaskDone, "completed_at": completedAt}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark task done: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *taskRepo) CompletedStats(ctx context.Context, userID string, start, end time.Time) (int, *float64, error) {
	pipe := []bson.M{
		{"$match": bson.M{
			"user_id":      userID,
			"completed_at": bson.M{"$gte": start, "$lte": end},
		}},
		{"$group": bson.M{
			"_id":      nil,
			"count":    bson.M{"$sum": 1},
			"avg_prio": bson.M{"$avg": "$priority"},
		}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipe)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to aggregate completed tasks: %w", err)
	}
	defer cursor.Close(ctx)
	var rows []struct {
		Count   int      `bson:"count"`
		AvgPrio *float64 `bson:"avg_prio"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, nil, fmt.Errorf("failed to decode completed task stats: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil, nil
	}
	return rows[0].Count, rows[0].AvgPrio, nil
}

func (r *taskRepo) CompletionSamples(ctx context.Context, userID string, category types.TaskCategory, priority int, limit int64) ([]types.CompletionSample, error) {
	filter := bson.M{
		"user_id":      userID,
		"category":     category,
		"priority":     priority,
		"completed_at": bson.M{"$ne": nil},
		"due_date":     bson.M{"$ne": nil},
	}
	opts := options.Find().
		SetProjection(bson.M{"completed_at": 1, "due_date": 1}).
		SetLimit(limit)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch completion samples: %w", err)
	}
	defer cursor.Close(ctx)
	var out []types.CompletionSample
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode completion samples: %w", err)
	}
	return out, nil
}

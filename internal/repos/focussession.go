package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dodotask/dodotask-backend/internal/db"
	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/types"
)

type FocusSessionRepo interface {
	Insert(ctx context.Context, fs *types.FocusSession) error
	GetByID(ctx context.Context, userID, sessionID string) (*types.FocusSession, error)
	// End records the close of a session; actual minutes stay nil until then.
	End(ctx context.Context, userID, sessionID string, endedAt time.Time, actualMinutes, interruptions, qualityScore int) error
	// SumActualMinutes sums actual_minutes ($ifNull -> 0) over sessions whose
	// started_at falls inside [start, end].
	SumActualMinutes(ctx context.Context, userID string, start, end time.Time) (int, error)
}

type focusSessionRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewFocusSessionRepo(store *db.MongoService, baseLog *logger.Logger) FocusSessionRepo {
	return &focusSessionRepo{
		coll: store.Collection(db.CollFocusSessions),
		log:  baseLog.With("repo", "FocusSessionRepo"),
	}
}

func (r *focusSessionRepo) Insert(ctx context.Context, fs *types.FocusSession) error {
	if _, err := r.coll.InsertOne(ctx, fs); err != nil {
		return fmt.Errorf("failed to insert focus session: %w", err)
	}
	return nil
}

func (r *focusSessionRepo) GetByID(ctx context.Context, userID, sessionID string) (*types.FocusSession, error) {
	var fs types.FocusSession
	err := r.coll.FindOne(ctx, bson.M{"session_id": sessionID, "user_id": userID}).Decode(&fs)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch focus session: %w", err)
	}
	return &fs, nil
}

func (r *focusSessionRepo) End(ctx context.Context, userID, sessionID string, endedAt time.Time, actualMinutes, interruptions, qualityScore int) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"session_id": sessionID, "user_id": userID},
		bson.M{"$set": bson.M{
			"ended_at":       endedAt,
			"actual_minutes": actualMinutes,
			"interruptions":  interruptions,
			"quality_score":  qualityScore,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to end focus session: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *focusSessionRepo) SumActualMinutes(ctx context.Context, userID string, start, end time.Time) (int, error) {
	pipe := []bson.M{
		{"$match": bson.M{
			"user_id":    userID,
			"started_at": bson.M{"$gte": start, "$lte": end},
		}},
		{"$group": bson.M{
			"_id": nil,
			"m":   bson.M{"$sum": bson.M{"$ifNull": bson.A{"$actual_minutes", 0}}},
		}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipe)
	if err != nil {
		return 0, fmt.Errorf("failed to sum focus minutes: %w", err)
	}
	defer cursor.Close(ctx)
	var rows []struct {
		M float64 `bson:"m"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode focus minute sum: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return int(rows[0].M), nil
}

package repos

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dodotask/dodotask-backend/internal/db"
	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/types"
)

type RiskScoreRepo interface {
	// Insert appends a score record; the collection is an audit trail and
	// rows are never updated.
	Insert(ctx context.Context, rec *types.RiskScoreRecord) error
	LatestByUser(ctx context.Context, userID string) (*types.RiskScoreRecord, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]types.RiskScoreRecord, error)
}

type riskScoreRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewRiskScoreRepo(store *db.MongoService, baseLog *logger.Logger) RiskScoreRepo {
	return &riskScoreRepo{
		coll: store.Collection(db.CollRiskScores),
		log:  baseLog.With("repo", "RiskScoreRepo"),
	}
}

func (r *riskScoreRepo) Insert(ctx context.Context, rec *types.RiskScoreRecord) error {
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to insert risk score: %w", err)
	}
	return nil
}

func (r *riskScoreRepo) LatestByUser(ctx context.Context, userID string) (*types.RiskScoreRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "ts", Value: -1}})
	var rec types.RiskScoreRecord
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest risk score: %w", err)
	}
	return &rec, nil
}

func (r *riskScoreRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]types.RiskScoreRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "ts", Value: -1}}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list risk scores: %w", err)
	}
	defer cursor.Close(ctx)
	var out []types.RiskScoreRecord
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode risk scores: %w", err)
	}
	return out, nil
}

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

type PetRepo interface {
	GetByUser(ctx context.Context, userID string) (*types.Pet, error)
	// UpsertMood sets the pet's mood, creating the pet document on first
	// touch. This is the one write the risk scorer makes outside its own
	// collections.
	UpsertMood(ctx context.Context, userID string, mood types.PetMood) error
	Rename(ctx context.Context, userID, name string) error
}

type petRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewPetRepo(store *db.MongoService, baseLog *logger.Logger) PetRepo {
	return &petRepo{
		coll: store.Collection(db.CollPets),
		log:  baseLog.With("repo", "PetRepo"),
	}
}

func (r *petRepo) GetByUser(ctx context.Context, userID string) (*types.Pet, error) {
	var pet types.Pet
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&pet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pet: %w", err)
	}
	return &pet, nil
}

func (r *petRepo) UpsertMood(ctx context.Context, userID string, mood types.PetMood) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$set":         bson.M{"mood": mood, "updated_at": time.Now().UTC()},
			"$setOnInsert": bson.M{"user_id": userID, "name": "Dodo", "energy": 100},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert pet mood: %w", err)
	}
	return nil
}

func (r *petRepo) Rename(ctx context.Context, userID, name string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"name": name, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to rename pet: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/utils"
)

// Collection names. Derived collections (usage_stats_daily,
// stress_risk_scores) are only ever written by the rollup and risk
// services.
const (
	CollUsers         = "users"
	CollTasks         = "tasks"
	CollEvents        = "events"
	CollMoodLogs      = "mood_logs"
	CollFocusSessions = "focus_sessions"
	CollDailyRollups  = "usage_stats_daily"
	CollRiskScores    = "stress_risk_scores"
	CollPets          = "pets"
)

// MongoService owns the client and database handle. It is passed
// explicitly to every repo; there is no package-level client.
type MongoService struct {
	client *mongo.Client
	db     *mongo.Database
	log    *logger.Logger
}

func NewMongoService(log *logger.Logger) (*MongoService, error) {
	serviceLog := log.With("service", "MongoService")

	mongoURI := utils.GetEnv("MONGO_URI", "mongodb://localhost:27017", log)
	mongoDB := utils.GetEnv("MONGO_DB", "dodotask", log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serviceLog.Info("Connecting to MongoDB...", "database", mongoDB)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("MongoDB is not reachable: %w", err)
	}
	serviceLog.Info("Connected to MongoDB")

	return &MongoService{
		client: client,
		db:     client.Database(mongoDB),
		log:    serviceLog,
	}, nil
}

func (s *MongoService) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *MongoService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the query-path indexes. The unique index on
// (user_id, date) is what makes concurrent rollup upserts last-write-wins
// instead of duplicating rows.
func (s *MongoService) EnsureIndexes(ctx context.Context) error {
	type spec struct {
		coll   string
		keys   bson.D
		unique bool
	}
	specs := []spec{
		{CollUsers, bson.D{{Key: "email", Value: 1}}, true},
		{CollUsers, bson.D{{Key: "user_id", Value: 1}}, true},
		{CollTasks, bson.D{{Key: "user_id", Value: 1}, {Key: "due_date", Value: 1}}, false},
		{CollTasks, bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}, false},
		{CollTasks, bson.D{{Key: "task_id", Value: 1}}, true},
		{CollEvents, bson.D{{Key: "user_id", Value: 1}, {Key: "ts", Value: 1}}, false},
		{CollMoodLogs, bson.D{{Key: "user_id", Value: 1}, {Key: "ts", Value: 1}}, false},
		{CollFocusSessions, bson.D{{Key: "user_id", Value: 1}, {Key: "started_at", Value: 1}}, false},
		{CollDailyRollups, bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}}, true},
		{CollRiskScores, bson.D{{Key: "user_id", Value: 1}, {Key: "ts", Value: 1}}, false},
		{CollPets, bson.D{{Key: "user_id", Value: 1}}, true},
	}

	for _, sp := range specs {
		model := mongo.IndexModel{Keys: sp.keys}
		if sp.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.db.Collection(sp.coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", sp.coll, err)
		}
	}
	s.log.Info("Mongo indexes ensured")
	return nil
}

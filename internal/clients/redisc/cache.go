package redisc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/types"
)

// RiskCache keeps the most recent risk score per user so the pet-state
// endpoint can poll without recomputing. Misses and redis outages are
// soft: callers fall back to the store.
type RiskCache interface {
	SetLatest(ctx context.Context, rec *types.RiskScoreRecord) error
	GetLatest(ctx context.Context, userID string) (*types.RiskScoreRecord, error)
	Close() error
}

type riskCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

var errCacheMiss = fmt.Errorf("risk cache miss")

// IsMiss reports whether err is a cache miss rather than an outage.
func IsMiss(err error) bool {
	return err == errCacheMiss
}

func NewRiskCache(log *logger.Logger, addr string, ttl time.Duration) (RiskCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &riskCache{
		log: log.With("service", "RiskCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func riskKey(userID string) string {
	return "risk:latest:" + userID
}

func (c *riskCache) SetLatest(ctx context.Context, rec *types.RiskScoreRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal risk record: %w", err)
	}
	if err := c.rdb.Set(ctx, riskKey(rec.UserID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache risk record: %w", err)
	}
	return nil
}

func (c *riskCache) GetLatest(ctx context.Context, userID string) (*types.RiskScoreRecord, error) {
	raw, err := c.rdb.Get(ctx, riskKey(userID)).Bytes()
	if err == goredis.Nil {
		return nil, errCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("read risk cache: %w", err)
	}
	var rec types.RiskScoreRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode cached risk record: %w", err)
	}
	return &rec, nil
}

func (c *riskCache) Close() error {
	return c.rdb.Close()
}

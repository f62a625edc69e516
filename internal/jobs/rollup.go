package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/repos"
	"github.com/dodotask/dodotask-backend/internal/services"
)

const (
	// Shortly after midnight UTC, once yesterday is a closed day.
	rollupSchedule = "5 0 * * *"
	// Users with any event in this window get their rollup recomputed.
	activityLookback = 48 * time.Hour
	jobTimeout       = 5 * time.Minute
)

// RollupJob reruns yesterday's rollup for recently-active users. Rollups
// are idempotent, so overlapping with on-demand recomputation is harmless.
type RollupJob struct {
	log       *logger.Logger
	cron      *cron.Cron
	rollupSvc services.RollupService
	eventRepo repos.EventRepo
}

func NewRollupJob(log *logger.Logger, rollupSvc services.RollupService, eventRepo repos.EventRepo) *RollupJob {
	return &RollupJob{
		log:       log.With("job", "RollupJob"),
		cron:      cron.New(),
		rollupSvc: rollupSvc,
		eventRepo: eventRepo,
	}
}

func (j *RollupJob) Start() error {
	if _, err := j.cron.AddFunc(rollupSchedule, j.run); err != nil {
		return err
	}
	j.cron.Start()
	j.log.Info("Nightly rollup job scheduled", "schedule", rollupSchedule)
	return nil
}

func (j *RollupJob) Stop() {
	<-j.cron.Stop().Done()
}

func (j *RollupJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)

	userIDs, err := j.eventRepo.ActiveUserIDs(ctx, now.Add(-activityLookback))
	if err != nil {
		j.log.Error("Failed to list active users for rollup", "error", err)
		return
	}
	j.log.Info("Running nightly rollups", "users", len(userIDs))

	failed := 0
	for _, uid := range userIDs {
		if _, err := j.rollupSvc.RollupDaily(ctx, uid, yesterday); err != nil {
			// One user's failure must not starve the rest.
			j.log.Warn("Nightly rollup failed for user", "user_id", uid, "error", err)
			failed++
		}
	}
	j.log.Info("Nightly rollups finished", "users", len(userIDs), "failed", failed)
}

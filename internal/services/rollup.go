package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/repos"
	"github.com/dodotask/dodotask-backend/internal/types"
)

// RollupService reduces one calendar day of raw events into the fixed-shape
// daily summary. RollupDaily is idempotent: same user, same day, same
// underlying events always produces the same record, and the write is an
// upsert keyed (user_id, date).
type RollupService interface {
	RollupDaily(ctx context.Context, userID string, day time.Time) (*types.DailyUsageRollup, error)
}

type rollupService struct {
	log        *logger.Logger
	taskRepo   repos.TaskRepo
	eventRepo  repos.EventRepo
	moodRepo   repos.MoodLogRepo
	focusRepo  repos.FocusSessionRepo
	rollupRepo repos.RollupRepo
}

func NewRollupService(
	log *logger.Logger,
	taskRepo repos.TaskRepo,
	eventRepo repos.EventRepo,
	moodRepo repos.MoodLogRepo,
	focusRepo repos.FocusSessionRepo,
	rollupRepo repos.RollupRepo,
) RollupService {
	return &rollupService{
		log:        log.With("service", "RollupService"),
		taskRepo:   taskRepo,
		eventRepo:  eventRepo,
		moodRepo:   moodRepo,
		focusRepo:  focusRepo,
		rollupRepo: rollupRepo,
	}
}

func (s *rollupService) RollupDaily(ctx context.Context, userID string, day time.Time) (*types.DailyUsageRollup, error) {
	start, end := dayWindow(day)

	tasksCompleted, avgPriority, err := s.taskRepo.CompletedStats(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("rollup completed tasks: %w", err)
	}

	overdueCount, err := s.eventRepo.CountByType(ctx, userID, types.EventOverdue, start, end)
	if err != nil {
		return nil, fmt.Errorf("rollup overdue count: %w", err)
	}

	focusMinutes, err := s.focusRepo.SumActualMinutes(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("rollup focus minutes: %w", err)
	}

	breaksTaken, err := s.eventRepo.CountByType(ctx, userID, types.EventBreakStart, start, end)
	if err != nil {
		return nil, fmt.Errorf("rollup breaks: %w", err)
	}

	hydrationCount, err := s.eventRepo.CountByType(ctx, userID, types.EventHydrate, start, end)
	if err != nil {
		return nil, fmt.Errorf("rollup hydration: %w", err)
	}

	sleepMinutes, err := s.eventRepo.SumContextMinutes(ctx, userID, types.EventSleepLog, start, end)
	if err != nil {
		return nil, fmt.Errorf("rollup sleep minutes: %w", err)
	}

	moodNegative, err := s.moodRepo.CountNegative(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("rollup negative moods: %w", err)
	}

	lateNight, err := s.eventRepo.CountLateNight(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("rollup late-night usage: %w", err)
	}

	rollup := &types.DailyUsageRollup{
		UserID:               userID,
		Date:                 start.Format(types.RollupDateLayout),
		TasksCompleted:       tasksCompleted,
		OverdueCount:         overdueCount,
		AvgPriorityCompleted: avgPriority,
		TotalFocusMinutes:    focusMinutes,
		BreaksTaken:          breaksTaken,
		HydrationCount:       hydrationCount,
		SleepMinutes:         sleepMinutes,
		MoodNegativeCount:    moodNegative,
		LateNightUsage:       lateNight,
	}

	if err := s.rollupRepo.Upsert(ctx, rollup); err != nil {
		return nil, fmt.Errorf("rollup upsert: %w", err)
	}
	return rollup, nil
}

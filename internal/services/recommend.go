package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/repos"
	"github.com/dodotask/dodotask-backend/internal/types"
)

const (
	sampleLimit    = 200
	minPullForward = 1
	maxPullForward = 3
)

// RecommendService mines a user's completed tasks of matching category and
// priority for a lateness pattern, and proposes pulling the due date
// forward. A nil recommendation with a nil error means "no chronic delay
// detected"; that is a result, not a failure.
type RecommendService interface {
	RecommendNewDueDate(ctx context.Context, userID, taskID string) (*types.DueDateRecommendation, error)
}

type recommendService struct {
	log      *logger.Logger
	taskRepo repos.TaskRepo
}

func NewRecommendService(log *logger.Logger, taskRepo repos.TaskRepo) RecommendService {
	return &recommendService{
		log:      log.With("service", "RecommendService"),
		taskRepo: taskRepo,
	}
}

func (s *recommendService) RecommendNewDueDate(ctx context.Context, userID, taskID string) (*types.DueDateRecommendation, error) {
	task, err := s.taskRepo.GetByID(ctx, userID, taskID)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, repos.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("recommend due date: %w", err)
	}
	if task.DueDate == nil {
		return nil, nil
	}
	due, ok := parseDay(*task.DueDate)
	if !ok {
		s.log.Warn("Task has unparsable due date", "task_id", taskID)
		return nil, nil
	}

	samples, err := s.taskRepo.CompletionSamples(ctx, userID, task.Category, task.Priority, sampleLimit)
	if err != nil {
		return nil, fmt.Errorf("recommend due date: %w", err)
	}

	delays, skipped := latenessSamples(samples)
	if skipped > 0 {
		s.log.Debug("Skipped unparsable completion samples", "task_id", taskID, "skipped", skipped)
	}
	if len(delays) == 0 {
		return nil, nil
	}

	medDelay := medianInt(delays)
	pullForward := clampInt(medDelay, minPullForward, maxPullForward)
	suggested := due.AddDate(0, 0, -pullForward)

	return &types.DueDateRecommendation{
		TaskID:       taskID,
		CurrentDue:   *task.DueDate,
		SuggestedDue: suggested.Format(types.RollupDateLayout),
		Reason:       fmt.Sprintf("median lateness %dd → pulling %dd earlier", medDelay, pullForward),
	}, nil
}

// latenessSamples converts raw completion samples into positive whole-day
// delays. Records whose dates cannot be normalized are skipped and
// counted, never fatal; on-time and early completions are discarded.
func latenessSamples(samples []types.CompletionSample) (delays []int, skipped int) {
	for _, sample := range samples {
		completed, ok := parseDay(sample.CompletedAt)
		if !ok {
			skipped++
			continue
		}
		due, ok := parseDay(sample.DueDate)
		if !ok {
			skipped++
			continue
		}
		if d := daysBetween(due, completed); d > 0 {
			delays = append(delays, d)
		}
	}
	return delays, skipped
}

// medianInt is the statistical median truncated to an integer: for an even
// count the two middle values are averaged before truncation.
func medianInt(vals []int) int {
	sorted := make([]int, len(vals))
	copy(sorted, vals)
	sort.Ints(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dodotask/dodotask-backend/internal/clients/redisc"
	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/repos"
	"github.com/dodotask/dodotask-backend/internal/types"
)

// Signal weights and caps. The capped terms sum to at most 100, but the
// final clamp stays: interruptions-per-hour is unbounded before its own cap.
const (
	streakWeight   = 7
	streakCap      = 20
	negMoodWeight  = 5
	negMoodCap     = 25
	lowSleepBonus  = 15
	lowSleepFloor  = 360 // minutes
	lateNightWt    = 5
	lateNightCap   = 15
	interruptWt    = 3
	interruptCap   = 15
	lowHydraBonus  = 10
	lowHydraFloor  = 3
	defaultLookback = 7 // days scanned by the overdue-streak detector
)

const (
	suggestionHigh = "I’m sensing strain—2-min breathing + reschedule 1 task earlier."
	suggestionMid  = "Tiny step time! 25-min focus + sip water."
	suggestionLow  = "Looking good—keep steady 💪"
)

// RiskService computes the composite stress score. Missing data never
// fails a computation: every signal degrades to a neutral value.
type RiskService interface {
	ComputeStressScore(ctx context.Context, userID string, window types.RiskWindow) (*types.RiskScoreRecord, error)
	OverdueStreak(ctx context.Context, userID string, anchor time.Time, windowDays int) (int, error)
}

type riskService struct {
	log        *logger.Logger
	rollupSvc  RollupService
	rollupRepo repos.RollupRepo
	riskRepo   repos.RiskScoreRepo
	petRepo    repos.PetRepo
	cache      redisc.RiskCache // optional; nil disables caching
}

func NewRiskService(
	log *logger.Logger,
	rollupSvc RollupService,
	rollupRepo repos.RollupRepo,
	riskRepo repos.RiskScoreRepo,
	petRepo repos.PetRepo,
	cache redisc.RiskCache,
) RiskService {
	return &riskService{
		log:        log.With("service", "RiskService"),
		rollupSvc:  rollupSvc,
		rollupRepo: rollupRepo,
		riskRepo:   riskRepo,
		petRepo:    petRepo,
		cache:      cache,
	}
}

func (s *riskService) ComputeStressScore(ctx context.Context, userID string, window types.RiskWindow) (*types.RiskScoreRecord, error) {
	now := time.Now().UTC()

	// Always score against a fresh rollup of today.
	today, err := s.rollupSvc.RollupDaily(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("compute stress score: %w", err)
	}

	streak, err := s.OverdueStreak(ctx, userID, now, defaultLookback)
	if err != nil {
		return nil, fmt.Errorf("compute stress score: %w", err)
	}

	score, signals := scoreRollup(today, streak)
	reaction := chooseReaction(score)

	rec := &types.RiskScoreRecord{
		UserID:      userID,
		TS:          now,
		Window:      window,
		Score:       score,
		Signals:     signals,
		PetReaction: reaction,
		Suggestion:  suggestionFor(score),
	}

	if err := s.riskRepo.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist risk score: %w", err)
	}
	if err := s.petRepo.UpsertMood(ctx, userID, petMoodFor(score)); err != nil {
		return nil, fmt.Errorf("update pet mood: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, rec); err != nil {
			s.log.Warn("Failed to cache latest risk score", "user_id", userID, "error", err)
		}
	}
	return rec, nil
}

func (s *riskService) OverdueStreak(ctx context.Context, userID string, anchor time.Time, windowDays int) (int, error) {
	if windowDays <= 0 {
		windowDays = defaultLookback
	}
	dates := lookbackDates(anchor, windowDays)
	rows, err := s.rollupRepo.GetByDates(ctx, userID, dates)
	if err != nil {
		return 0, fmt.Errorf("overdue streak: %w", err)
	}
	return streakFromRollups(rows, dates), nil
}

// lookbackDates returns anchor, anchor-1, ... anchor-(windowDays-1) as
// rollup date keys, most recent first.
func lookbackDates(anchor time.Time, windowDays int) []string {
	day := dateOf(anchor)
	dates := make([]string, windowDays)
	for i := 0; i < windowDays; i++ {
		dates[i] = day.AddDate(0, 0, -i).Format(types.RollupDateLayout)
	}
	return dates
}

// streakFromRollups counts consecutive overdue days starting at the anchor
// date. A day with no stored rollup breaks the streak: only existing rows
// are known, and an absent row cannot be distinguished from a day the
// aggregator never ran, so the streak stops growing there.
func streakFromRollups(rows []types.DailyUsageRollup, dates []string) int {
	byDate := make(map[string]types.DailyUsageRollup, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r
	}
	streak := 0
	for _, d := range dates {
		row, ok := byDate[d]
		if !ok || row.OverdueCount <= 0 {
			break
		}
		streak++
	}
	return streak
}

// scoreRollup accumulates the six weighted, independently capped signals
// and clamps the total to 100.
func scoreRollup(today *types.DailyUsageRollup, streak int) (float64, types.RiskSignals) {
	signals := types.RiskSignals{
		OverdueStreak:  streak,
		NegMood:        today.MoodNegativeCount,
		SleepLow:       today.SleepMinutes < lowSleepFloor,
		LateNightUsage: today.LateNightUsage,
		HydrationLow:   today.HydrationCount < lowHydraFloor,
	}

	score := 0.0
	score += math.Min(streakCap, float64(streak*streakWeight))
	score += math.Min(negMoodCap, float64(today.MoodNegativeCount*negMoodWeight))
	if signals.SleepLow {
		score += lowSleepBonus
	}
	score += math.Min(lateNightCap, float64(today.LateNightUsage*lateNightWt))

	// Interruption rate: breaks per focus hour, focus floored at one minute
	// so an idle day cannot divide by zero.
	focusMinutes := math.Max(float64(today.TotalFocusMinutes), 1)
	perHour := float64(today.BreaksTaken) / (focusMinutes / 60.0)
	signals.InterruptionsPerHour = math.Round(perHour*100) / 100
	score += math.Min(interruptCap, perHour*interruptWt)

	if signals.HydrationLow {
		score += lowHydraBonus
	}

	score = math.Min(100, math.Round(score*10)/10)
	return score, signals
}

func chooseReaction(score float64) types.PetReaction {
	switch {
	case score >= 70:
		return types.ReactionConcern
	case score >= 40:
		return types.ReactionCheer
	default:
		return types.ReactionIdle
	}
}

func suggestionFor(score float64) string {
	switch {
	case score >= 70:
		return suggestionHigh
	case score >= 40:
		return suggestionMid
	default:
		return suggestionLow
	}
}

func petMoodFor(score float64) types.PetMood {
	switch {
	case score >= 70:
		return types.PetConcerned
	case score < 40:
		return types.PetHappy
	default:
		return types.PetIdle
	}
}

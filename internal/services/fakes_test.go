package services

import (
	"context"
	"time"

	"github.com/dodotask/dodotask-backend/internal/repos"
	"github.com/dodotask/dodotask-backend/internal/types"
)

// In-memory fakes for the repo interfaces. Aggregation methods return
// canned values; write methods record what they were given.

type fakeTaskRepo struct {
	tasks map[string]*types.Task // keyed by task_id

	completedCount int
	avgPriority    *float64
	samples        []types.CompletionSample

	statsStart time.Time
	statsEnd   time.Time

	inserted  []*types.Task
	markedIDs []string
}

func (f *fakeTaskRepo) Insert(ctx context.Context, task *types.Task) error {
	f.inserted = append(f.inserted, task)
	if f.tasks == nil {
		f.tasks = map[string]*types.Task{}
	}
	f.tasks[task.TaskID] = task
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, userID, taskID string) (*types.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, repos.ErrNotFound
	}
	cp := *task
	return &cp, nil
}

func (f *fakeTaskRepo) ListByUser(ctx context.Context, userID string, status types.TaskStatus, limit int64) ([]types.Task, error) {
	var out []types.Task
	for _, t := range f.tasks {
		if t.UserID == userID && (status == "" || t.Status == status) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) MarkDone(ctx context.Context, userID, taskID string, completedAt time.Time) error {
	task, ok := f.tasks[taskID]
	if !ok || task.UserID != userID {
		return repos.ErrNotFound
	}
	task.Status = types.TaskDone
	task.CompletedAt = &completedAt
	f.markedIDs = append(f.markedIDs, taskID)
	return nil
}

func (f *fakeTaskRepo) CompletedStats(ctx context.Context, userID string, start, end time.Time) (int, *float64, error) {
	f.statsStart, f.statsEnd = start, end
	return f.completedCount, f.avgPriority, nil
}

func (f *fakeTaskRepo) CompletionSamples(ctx context.Context, userID string, category types.TaskCategory, priority int, limit int64) ([]types.CompletionSample, error) {
	return f.samples, nil
}

type fakeEventRepo struct {
	countsByType map[types.EventType]int
	sleepMinutes int
	lateNight    int
	activeUsers  []string

	inserted []*types.Event
}

func (f *fakeEventRepo) Insert(ctx context.Context, ev *types.Event) error {
	f.inserted = append(f.inserted, ev)
	return nil
}

func (f *fakeEventRepo) CountByType(ctx context.Context, userID string, typ types.EventType, start, end time.Time) (int, error) {
	return f.countsByType[typ], nil
}

func (f *fakeEventRepo) SumContextMinutes(ctx context.Context, userID string, typ types.EventType, start, end time.Time) (int, error) {
	return f.sleepMinutes, nil
}

func (f *fakeEventRepo) CountLateNight(ctx context.Context, userID string, start, end time.Time) (int, error) {
	return f.lateNight, nil
}

func (f *fakeEventRepo) ActiveUserIDs(ctx context.Context, since time.Time) ([]string, error) {
	return f.activeUsers, nil
}

type fakeMoodLogRepo struct {
	negativeCount int
	inserted      []*types.MoodLog
}

func (f *fakeMoodLogRepo) Insert(ctx context.Context, ml *types.MoodLog) error {
	f.inserted = append(f.inserted, ml)
	return nil
}

func (f *fakeMoodLogRepo) CountNegative(ctx context.Context, userID string, start, end time.Time) (int, error) {
	return f.negativeCount, nil
}

type fakeFocusRepo struct {
	totalMinutes int
	sessions     map[string]*types.FocusSession
}

func (f *fakeFocusRepo) Insert(ctx context.Context, fs *types.FocusSession) error {
	if f.sessions == nil {
		f.sessions = map[string]*types.FocusSession{}
	}
	f.sessions[fs.SessionID] = fs
	return nil
}

func (f *fakeFocusRepo) GetByID(ctx context.Context, userID, sessionID string) (*types.FocusSession, error) {
	fs, ok := f.sessions[sessionID]
	if !ok || fs.UserID != userID {
		return nil, repos.ErrNotFound
	}
	cp := *fs
	return &cp, nil
}

func (f *fakeFocusRepo) End(ctx context.Context, userID, sessionID string, endedAt time.Time, actualMinutes, interruptions, qualityScore int) error {
	fs, ok := f.sessions[sessionID]
	if !ok || fs.UserID != userID {
		return repos.ErrNotFound
	}
	fs.EndedAt = &endedAt
	fs.ActualMinutes = &actualMinutes
	fs.Interruptions = interruptions
	fs.QualityScore = qualityScore
	return nil
}

func (f *fakeFocusRepo) SumActualMinutes(ctx context.Context, userID string, start, end time.Time) (int, error) {
	return f.totalMinutes, nil
}

type fakeRollupRepo struct {
	rows     map[string]types.DailyUsageRollup // keyed by date
	upserted []*types.DailyUsageRollup
}

func (f *fakeRollupRepo) Upsert(ctx context.Context, rollup *types.DailyUsageRollup) error {
	cp := *rollup
	f.upserted = append(f.upserted, &cp)
	if f.rows == nil {
		f.rows = map[string]types.DailyUsageRollup{}
	}
	f.rows[rollup.Date] = cp
	return nil
}

func (f *fakeRollupRepo) GetByDates(ctx context.Context, userID string, dates []string) ([]types.DailyUsageRollup, error) {
	var out []types.DailyUsageRollup
	for _, d := range dates {
		if row, ok := f.rows[d]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeRiskScoreRepo struct {
	inserted []*types.RiskScoreRecord
	latest   *types.RiskScoreRecord
}

func (f *fakeRiskScoreRepo) Insert(ctx context.Context, rec *types.RiskScoreRecord) error {
	f.inserted = append(f.inserted, rec)
	f.latest = rec
	return nil
}

func (f *fakeRiskScoreRepo) LatestByUser(ctx context.Context, userID string) (*types.RiskScoreRecord, error) {
	if f.latest == nil {
		return nil, repos.ErrNotFound
	}
	return f.latest, nil
}

func (f *fakeRiskScoreRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]types.RiskScoreRecord, error) {
	if f.latest == nil {
		return nil, nil
	}
	return []types.RiskScoreRecord{*f.latest}, nil
}

type fakePetRepo struct {
	pet       *types.Pet
	moodsSeen []types.PetMood
}

func (f *fakePetRepo) GetByUser(ctx context.Context, userID string) (*types.Pet, error) {
	if f.pet == nil {
		return nil, repos.ErrNotFound
	}
	return f.pet, nil
}

func (f *fakePetRepo) UpsertMood(ctx context.Context, userID string, mood types.PetMood) error {
	f.moodsSeen = append(f.moodsSeen, mood)
	if f.pet == nil {
		f.pet = &types.Pet{UserID: userID, Name: "Dodo", Energy: 100}
	}
	f.pet.Mood = mood
	return nil
}

func (f *fakePetRepo) Rename(ctx context.Context, userID, name string) error {
	if f.pet == nil {
		return repos.ErrNotFound
	}
	f.pet.Name = name
	return nil
}

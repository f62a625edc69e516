package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dodotask/dodotask-backend/internal/repos"
	"github.com/dodotask/dodotask-backend/internal/types"
)

func strPtr(s string) *string { return &s }

func sampleOn(dueDay string, lateDays int) types.CompletionSample {
	due, _ := time.Parse("2006-01-02", dueDay)
	return types.CompletionSample{
		CompletedAt: due.AddDate(0, 0, lateDays),
		DueDate:     dueDay,
	}
}

func TestMedianInt(t *testing.T) {
	cases := []struct {
		name string
		vals []int
		want int
	}{
		{"single", []int{4}, 4},
		{"odd", []int{5, 2, 3}, 3},
		{"even_truncates", []int{2, 2, 3, 5}, 2},
		{"even_midpoint", []int{1, 3}, 2},
		{"unsorted", []int{9, 1, 7, 1, 7}, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := medianInt(tc.vals); got != tc.want {
				t.Fatalf("medianInt(%v)=%d, want %d", tc.vals, got, tc.want)
			}
		})
	}
}

func TestLatenessSamples(t *testing.T) {
	samples := []types.CompletionSample{
		sampleOn("2025-06-01", 2),  // late 2d
		sampleOn("2025-06-02", 0),  // on time, discarded
		sampleOn("2025-06-03", -1), // early, discarded
		sampleOn("2025-06-04", 5),  // late 5d
		{CompletedAt: "not-a-date", DueDate: "2025-06-05"}, // skipped
		{CompletedAt: time.Now(), DueDate: 12345},          // skipped
	}
	delays, skipped := latenessSamples(samples)
	if len(delays) != 2 {
		t.Fatalf("delays=%v, want 2 positive samples", delays)
	}
	if delays[0] != 2 || delays[1] != 5 {
		t.Fatalf("delays=%v, want [2 5]", delays)
	}
	if skipped != 2 {
		t.Fatalf("skipped=%d, want 2", skipped)
	}
}

func TestRecommendNewDueDate(t *testing.T) {
	task := &types.Task{
		TaskID:   "t1",
		UserID:   "u1",
		Category: types.CategoryAcademic,
		Priority: 1,
		DueDate:  strPtr("2025-09-10"),
		Status:   types.TaskPending,
	}

	t.Run("median_pulls_due_forward", func(t *testing.T) {
		repo := &fakeTaskRepo{
			tasks: map[string]*types.Task{"t1": task},
			samples: []types.CompletionSample{
				sampleOn("2025-05-01", 2),
				sampleOn("2025-05-08", 2),
				sampleOn("2025-05-15", 3),
				sampleOn("2025-05-22", 5),
			},
		}
		svc := NewRecommendService(testLogger(t), repo)
		rec, err := svc.RecommendNewDueDate(context.Background(), "u1", "t1")
		if err != nil {
			t.Fatalf("RecommendNewDueDate: %v", err)
		}
		if rec == nil {
			t.Fatalf("expected a recommendation")
		}
		if rec.SuggestedDue != "2025-09-08" {
			t.Fatalf("suggested_due=%q, want 2025-09-08 (median 2d pulled forward)", rec.SuggestedDue)
		}
		if rec.CurrentDue != "2025-09-10" {
			t.Fatalf("current_due=%q, want 2025-09-10", rec.CurrentDue)
		}
		if !strings.Contains(rec.Reason, "2d") {
			t.Fatalf("reason %q should cite the 2-day median", rec.Reason)
		}
	})

	t.Run("pull_forward_clamped_to_three", func(t *testing.T) {
		repo := &fakeTaskRepo{
			tasks: map[string]*types.Task{"t1": task},
			samples: []types.CompletionSample{
				sampleOn("2025-05-01", 10),
				sampleOn("2025-05-08", 12),
				sampleOn("2025-05-15", 14),
			},
		}
		svc := NewRecommendService(testLogger(t), repo)
		rec, err := svc.RecommendNewDueDate(context.Background(), "u1", "t1")
		if err != nil {
			t.Fatalf("RecommendNewDueDate: %v", err)
		}
		if rec.SuggestedDue != "2025-09-07" {
			t.Fatalf("suggested_due=%q, want 2025-09-07 (clamp to 3d)", rec.SuggestedDue)
		}
	})

	t.Run("no_samples_is_no_recommendation", func(t *testing.T) {
		repo := &fakeTaskRepo{tasks: map[string]*types.Task{"t1": task}}
		svc := NewRecommendService(testLogger(t), repo)
		rec, err := svc.RecommendNewDueDate(context.Background(), "u1", "t1")
		if err != nil {
			t.Fatalf("RecommendNewDueDate: %v", err)
		}
		if rec != nil {
			t.Fatalf("expected nil recommendation, got %+v", rec)
		}
	})

	t.Run("only_on_time_history_is_no_recommendation", func(t *testing.T) {
		repo := &fakeTaskRepo{
			tasks: map[string]*types.Task{"t1": task},
			samples: []types.CompletionSample{
				sampleOn("2025-05-01", 0),
				sampleOn("2025-05-08", -2),
			},
		}
		svc := NewRecommendService(testLogger(t), repo)
		rec, err := svc.RecommendNewDueDate(context.Background(), "u1", "t1")
		if err != nil {
			t.Fatalf("RecommendNewDueDate: %v", err)
		}
		if rec != nil {
			t.Fatalf("expected nil recommendation, got %+v", rec)
		}
	})

	t.Run("one_malformed_record_among_many_does_not_crash", func(t *testing.T) {
		samples := []types.CompletionSample{
			{CompletedAt: "garbled", DueDate: "also garbled"},
		}
		for i := 0; i < 50; i++ {
			samples = append(samples, sampleOn(fmt.Sprintf("2025-03-%02d", i%28+1), 2))
		}
		repo := &fakeTaskRepo{tasks: map[string]*types.Task{"t1": task}, samples: samples}
		svc := NewRecommendService(testLogger(t), repo)
		rec, err := svc.RecommendNewDueDate(context.Background(), "u1", "t1")
		if err != nil {
			t.Fatalf("RecommendNewDueDate: %v", err)
		}
		if rec == nil || rec.SuggestedDue != "2025-09-08" {
			t.Fatalf("rec=%+v, want median 2d from the 50 valid samples", rec)
		}
	})

	t.Run("task_without_due_date_is_no_recommendation", func(t *testing.T) {
		noDue := *task
		noDue.DueDate = nil
		repo := &fakeTaskRepo{tasks: map[string]*types.Task{"t1": &noDue}}
		svc := NewRecommendService(testLogger(t), repo)
		rec, err := svc.RecommendNewDueDate(context.Background(), "u1", "t1")
		if err != nil {
			t.Fatalf("RecommendNewDueDate: %v", err)
		}
		if rec != nil {
			t.Fatalf("expected nil recommendation, got %+v", rec)
		}
	})

	t.Run("missing_task_is_not_found", func(t *testing.T) {
		repo := &fakeTaskRepo{}
		svc := NewRecommendService(testLogger(t), repo)
		_, err := svc.RecommendNewDueDate(context.Background(), "u1", "nope")
		if !errors.Is(err, repos.ErrNotFound) {
			t.Fatalf("err=%v, want ErrNotFound", err)
		}
	})

	t.Run("datetime_due_date_normalizes_to_day", func(t *testing.T) {
		dt := *task
		dt.DueDate = strPtr("2025-09-10T17:30:00")
		repo := &fakeTaskRepo{
			tasks:   map[string]*types.Task{"t1": &dt},
			samples: []types.CompletionSample{sampleOn("2025-05-01", 1)},
		}
		svc := NewRecommendService(testLogger(t), repo)
		rec, err := svc.RecommendNewDueDate(context.Background(), "u1", "t1")
		if err != nil {
			t.Fatalf("RecommendNewDueDate: %v", err)
		}
		if rec.SuggestedDue != "2025-09-09" {
			t.Fatalf("suggested_due=%q, want 2025-09-09", rec.SuggestedDue)
		}
	})
}

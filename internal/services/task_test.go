package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dodotask/dodotask-backend/internal/repos"
	"github.com/dodotask/dodotask-backend/internal/types"
)

func newTaskService(t *testing.T) (TaskService, *fakeTaskRepo, *fakeEventRepo) {
	taskRepo := &fakeTaskRepo{tasks: map[string]*types.Task{}}
	eventRepo := &fakeEventRepo{}
	return NewTaskService(testLogger(t), taskRepo, eventRepo), taskRepo, eventRepo
}

func TestTaskCreate(t *testing.T) {
	t.Run("valid task", func(t *testing.T) {
		svc, taskRepo, _ := newTaskService(t)
		due := "2025-09-05"
		task, err := svc.Create(context.Background(), "u1", CreateTaskInput{
			Title:         "  write report  ",
			Category:      types.CategoryAcademic,
			Priority:      3,
			EstimatedTime: 45,
			DueDate:       &due,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if task.Title != "write report" {
			t.Fatalf("title=%q, want trimmed", task.Title)
		}
		if task.Status != types.TaskPending {
			t.Fatalf("status=%q, want pending", task.Status)
		}
		if task.TaskID == "" {
			t.Fatal("task_id not assigned")
		}
		if len(taskRepo.inserted) != 1 {
			t.Fatalf("inserts=%d, want 1", len(taskRepo.inserted))
		}
	})

	t.Run("blank title rejected", func(t *testing.T) {
		svc, _, _ := newTaskService(t)
		if _, err := svc.Create(context.Background(), "u1", CreateTaskInput{Title: "   ", Category: types.CategoryAcademic}); err == nil {
			t.Fatal("expected error for blank title")
		}
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		svc, _, _ := newTaskService(t)
		if _, err := svc.Create(context.Background(), "u1", CreateTaskInput{Title: "x", Category: "chores"}); err == nil {
			t.Fatal("expected error for unknown category")
		}
	})

	t.Run("out-of-range priority defaults to 2", func(t *testing.T) {
		svc, _, _ := newTaskService(t)
		task, err := svc.Create(context.Background(), "u1", CreateTaskInput{Title: "x", Category: types.CategoryPersonal, Priority: 9})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if task.Priority != 2 {
			t.Fatalf("priority=%d, want 2", task.Priority)
		}
	})

	t.Run("unparsable due date rejected", func(t *testing.T) {
		svc, _, _ := newTaskService(t)
		due := "whenever"
		if _, err := svc.Create(context.Background(), "u1", CreateTaskInput{Title: "x", Category: types.CategoryAcademic, DueDate: &due}); err == nil {
			t.Fatal("expected error for unparsable due date")
		}
	})
}

func TestTaskStart(t *testing.T) {
	svc, taskRepo, eventRepo := newTaskService(t)
	taskRepo.tasks["t1"] = &types.Task{TaskID: "t1", UserID: "u1", Status: types.TaskPending}

	if err := svc.Start(context.Background(), "u1", "t1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(eventRepo.inserted) != 1 {
		t.Fatalf("events=%d, want 1", len(eventRepo.inserted))
	}
	ev := eventRepo.inserted[0]
	if ev.Type != types.EventTaskStart {
		t.Fatalf("event type=%q, want task_start", ev.Type)
	}
	if ev.Context["task_id"] != "t1" {
		t.Fatalf("event context=%v", ev.Context)
	}
	if taskRepo.tasks["t1"].Status != types.TaskPending {
		t.Fatal("start must not change task status")
	}

	if err := svc.Start(context.Background(), "u1", "missing"); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestTaskComplete(t *testing.T) {
	t.Run("on time emits only task_complete", func(t *testing.T) {
		svc, taskRepo, eventRepo := newTaskService(t)
		due := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
		taskRepo.tasks["t1"] = &types.Task{TaskID: "t1", UserID: "u1", Status: types.TaskPending, DueDate: &due}

		res, err := svc.Complete(context.Background(), "u1", "t1")
		if err != nil {
			t.Fatalf("Complete: %v", err)
		}
		if res.Overdue {
			t.Fatal("task due in the future flagged overdue")
		}
		if res.Task.Status != types.TaskDone || res.Task.CompletedAt == nil {
			t.Fatalf("task not marked done: %+v", res.Task)
		}
		if len(eventRepo.inserted) != 1 || eventRepo.inserted[0].Type != types.EventTaskComplete {
			t.Fatalf("events=%+v, want single task_complete", eventRepo.inserted)
		}
	})

	t.Run("past due emits overdue event", func(t *testing.T) {
		svc, taskRepo, eventRepo := newTaskService(t)
		due := time.Now().UTC().AddDate(0, 0, -3).Format("2006-01-02")
		taskRepo.tasks["t1"] = &types.Task{TaskID: "t1", UserID: "u1", Status: types.TaskPending, DueDate: &due}

		res, err := svc.Complete(context.Background(), "u1", "t1")
		if err != nil {
			t.Fatalf("Complete: %v", err)
		}
		if !res.Overdue {
			t.Fatal("past-due completion not flagged overdue")
		}
		if len(eventRepo.inserted) != 2 {
			t.Fatalf("events=%d, want task_complete + overdue", len(eventRepo.inserted))
		}
		if eventRepo.inserted[1].Type != types.EventOverdue {
			t.Fatalf("second event type=%q, want overdue", eventRepo.inserted[1].Type)
		}
	})

	t.Run("due today is not overdue", func(t *testing.T) {
		svc, taskRepo, eventRepo := newTaskService(t)
		due := time.Now().UTC().Format("2006-01-02")
		taskRepo.tasks["t1"] = &types.Task{TaskID: "t1", UserID: "u1", Status: types.TaskPending, DueDate: &due}

		res, err := svc.Complete(context.Background(), "u1", "t1")
		if err != nil {
			t.Fatalf("Complete: %v", err)
		}
		if res.Overdue {
			t.Fatal("same-day completion flagged overdue")
		}
		if len(eventRepo.inserted) != 1 {
			t.Fatalf("events=%d, want 1", len(eventRepo.inserted))
		}
	})

	t.Run("double complete is a no-op", func(t *testing.T) {
		svc, taskRepo, eventRepo := newTaskService(t)
		due := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
		taskRepo.tasks["t1"] = &types.Task{TaskID: "t1", UserID: "u1", Status: types.TaskPending, DueDate: &due}

		if _, err := svc.Complete(context.Background(), "u1", "t1"); err != nil {
			t.Fatalf("first Complete: %v", err)
		}
		events := len(eventRepo.inserted)
		marks := len(taskRepo.markedIDs)

		res, err := svc.Complete(context.Background(), "u1", "t1")
		if err != nil {
			t.Fatalf("second Complete: %v", err)
		}
		if res.Overdue {
			t.Fatal("repeat completion must not re-flag overdue")
		}
		if len(eventRepo.inserted) != events {
			t.Fatal("repeat completion emitted events")
		}
		if len(taskRepo.markedIDs) != marks {
			t.Fatal("repeat completion wrote the task again")
		}
	})

	t.Run("unparsable stored due date completes without overdue", func(t *testing.T) {
		svc, taskRepo, eventRepo := newTaskService(t)
		due := "someday"
		taskRepo.tasks["t1"] = &types.Task{TaskID: "t1", UserID: "u1", Status: types.TaskPending, DueDate: &due}

		res, err := svc.Complete(context.Background(), "u1", "t1")
		if err != nil {
			t.Fatalf("Complete: %v", err)
		}
		if res.Overdue {
			t.Fatal("unparsable due date flagged overdue")
		}
		if len(eventRepo.inserted) != 1 {
			t.Fatalf("events=%d, want 1", len(eventRepo.inserted))
		}
	})

	t.Run("missing task", func(t *testing.T) {
		svc, _, _ := newTaskService(t)
		if _, err := svc.Complete(context.Background(), "u1", "nope"); !errors.Is(err, repos.ErrNotFound) {
			t.Fatalf("err=%v, want ErrNotFound", err)
		}
	})

	t.Run("other user's task is not visible", func(t *testing.T) {
		svc, taskRepo, _ := newTaskService(t)
		taskRepo.tasks["t1"] = &types.Task{TaskID: "t1", UserID: "someone-else", Status: types.TaskPending}
		if _, err := svc.Complete(context.Background(), "u1", "t1"); !errors.Is(err, repos.ErrNotFound) {
			t.Fatalf("err=%v, want ErrNotFound", err)
		}
	})
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/repos"
	"github.com/dodotask/dodotask-backend/internal/types"
)

type CreateTaskInput struct {
	Title         string
	Category      types.TaskCategory
	Priority      int
	EstimatedTime int
	DueDate       *string
}

type CompleteTaskResult struct {
	Task    *types.Task
	Overdue bool
}

// TaskService owns the pending -> done lifecycle and the events it feeds
// into the telemetry stream. "Overdue" is a derived event, never a task
// status.
type TaskService interface {
	Create(ctx context.Context, userID string, in CreateTaskInput) (*types.Task, error)
	Get(ctx context.Context, userID, taskID string) (*types.Task, error)
	List(ctx context.Context, userID string, status types.TaskStatus, limit int64) ([]types.Task, error)
	Start(ctx context.Context, userID, taskID string) error
	Complete(ctx context.Context, userID, taskID string) (*CompleteTaskResult, error)
}

type taskService struct {
	log       *logger.Logger
	taskRepo  repos.TaskRepo
	eventRepo repos.EventRepo
}

func NewTaskService(log *logger.Logger, taskRepo repos.TaskRepo, eventRepo repos.EventRepo) TaskService {
	return &taskService{
		log:       log.With("service", "TaskService"),
		taskRepo:  taskRepo,
		eventRepo: eventRepo,
	}
}

func (s *taskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*types.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("task title is required")
	}
	if !in.Category.Valid() {
		return nil, fmt.Errorf("unknown task category %q", in.Category)
	}
	if in.Priority < 1 || in.Priority > 3 {
		in.Priority = 2
	}
	if in.DueDate != nil {
		if _, ok := parseDay(*in.DueDate); !ok {
			return nil, fmt.Errorf("unparsable due date %q", *in.DueDate)
		}
	}

	task := &types.Task{
		TaskID:        uuid.NewString(),
		UserID:        userID,
		Title:         strings.TrimSpace(in.Title),
		Category:      in.Category,
		Priority:      in.Priority,
		EstimatedTime: in.EstimatedTime,
		DueDate:       in.DueDate,
		Status:        types.TaskPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.taskRepo.Insert(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *taskService) Get(ctx context.Context, userID, taskID string) (*types.Task, error) {
	return s.taskRepo.GetByID(ctx, userID, taskID)
}

func (s *taskService) List(ctx context.Context, userID string, status types.TaskStatus, limit int64) ([]types.Task, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.taskRepo.ListByUser(ctx, userID, status, limit)
}

// Start emits a task_start event. Task status does not change.
func (s *taskService) Start(ctx context.Context, userID, taskID string) error {
	if _, err := s.taskRepo.GetByID(ctx, userID, taskID); err != nil {
		return err
	}
	ev := &types.Event{
		EventID: uuid.NewString(),
		UserID:  userID,
		Type:    types.EventTaskStart,
		TS:      time.Now().UTC(),
		Context: map[string]interface{}{"task_id": taskID},
	}
	if err := s.eventRepo.Insert(ctx, ev); err != nil {
		return fmt.Errorf("start task: %w", err)
	}
	return nil
}

// Complete marks the task done, stamps completed_at and emits a
// task_complete event, plus an overdue event when completion lands on a
// later calendar day than the due date. Completing an already-done task is
// a no-op that returns the stored task unchanged.
func (s *taskService) Complete(ctx context.Context, userID, taskID string) (*CompleteTaskResult, error) {
	task, err := s.taskRepo.GetByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == types.TaskDone {
		return &CompleteTaskResult{Task: task, Overdue: false}, nil
	}

	now := time.Now().UTC()
	isOverdue := false
	if task.DueDate != nil {
		// An unparsable stored due date just means no overdue signal.
		if due, ok := parseDay(*task.DueDate); ok {
			isOverdue = dateOf(now).After(due)
		}
	}

	if err := s.taskRepo.MarkDone(ctx, userID, taskID, now); err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	task.Status = types.TaskDone
	task.CompletedAt = &now

	completeEv := &types.Event{
		EventID: uuid.NewString(),
		UserID:  userID,
		Type:    types.EventTaskComplete,
		TS:      now,
		Context: map[string]interface{}{"task_id": taskID},
	}
	if err := s.eventRepo.Insert(ctx, completeEv); err != nil {
		return nil, fmt.Errorf("complete task event: %w", err)
	}

	if isOverdue {
		overdueEv := &types.Event{
			EventID: uuid.NewString(),
			UserID:  userID,
			Type:    types.EventOverdue,
			TS:      now,
			Context: map[string]interface{}{"task_id": taskID},
		}
		if err := s.eventRepo.Insert(ctx, overdueEv); err != nil {
			return nil, fmt.Errorf("overdue event: %w", err)
		}
	}

	return &CompleteTaskResult{Task: task, Overdue: isOverdue}, nil
}

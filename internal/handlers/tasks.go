package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/repos"
	"github.com/dodotask/dodotask-backend/internal/services"
	"github.com/dodotask/dodotask-backend/internal/types"
)

type TaskHandler struct {
	log          *logger.Logger
	taskSvc      services.TaskService
	recommendSvc services.RecommendService
}

func NewTaskHandler(log *logger.Logger, taskSvc services.TaskService, recommendSvc services.RecommendService) *TaskHandler {
	return &TaskHandler{
		log:          log.With("handler", "TaskHandler"),
		taskSvc:      taskSvc,
		recommendSvc: recommendSvc,
	}
}

// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var body struct {
		Title         string  `json:"title"`
		Category      string  `json:"category"`
		Priority      int     `json:"priority"`
		EstimatedTime int     `json:"estimated_time"`
		DueDate       *string `json:"due_date"`
	}
	if err := c.BindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	task, err := h.taskSvc.Create(c.Request.Context(), userID(c), services.CreateTaskInput{
		Title:         body.Title,
		Category:      types.TaskCategory(body.Category),
		Priority:      body.Priority,
		EstimatedTime: body.EstimatedTime,
		DueDate:       body.DueDate,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_task", err)
		return
	}
	RespondCreated(c, task)
}

// GET /api/tasks?status=pending&limit=50
func (h *TaskHandler) List(c *gin.Context) {
	limit := int64(50)
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.ParseInt(l, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}
	tasks, err := h.taskSvc.List(c.Request.Context(), userID(c), types.TaskStatus(c.Query("status")), limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, tasks)
}

// GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.taskSvc.Get(c.Request.Context(), userID(c), c.Param("id"))
	if errors.Is(err, repos.ErrNotFound) {
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, task)
}

// POST /api/tasks/:id/start
func (h *TaskHandler) Start(c *gin.Context) {
	taskID := c.Param("id")
	err := h.taskSvc.Start(c.Request.Context(), userID(c), taskID)
	if errors.Is(err, repos.ErrNotFound) {
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, gin.H{"started": true, "task_id": taskID})
}

// PATCH /api/tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	taskID := c.Param("id")
	res, err := h.taskSvc.Complete(c.Request.Context(), userID(c), taskID)
	if errors.Is(err, repos.ErrNotFound) {
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, gin.H{"completed": true, "task_id": taskID, "overdue": res.Overdue})
}

// GET /api/tasks/:id/recommend-due
func (h *TaskHandler) RecommendDue(c *gin.Context) {
	rec, err := h.recommendSvc.RecommendNewDueDate(c.Request.Context(), userID(c), c.Param("id"))
	if errors.Is(err, repos.ErrNotFound) {
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	if rec == nil {
		RespondOK(c, gin.H{"message": "No chronic delay detected."})
		return
	}
	RespondOK(c, rec)
}

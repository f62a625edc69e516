package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/services"
	"github.com/dodotask/dodotask-backend/internal/types"
)

type WellbeingHandler struct {
	log          *logger.Logger
	wellbeingSvc services.WellbeingService
	rollupSvc    services.RollupService
	riskSvc      services.RiskService
}

func NewWellbeingHandler(
	log *logger.Logger,
	wellbeingSvc services.WellbeingService,
	rollupSvc services.RollupService,
	riskSvc services.RiskService,
) *WellbeingHandler {
	return &WellbeingHandler{
		log:          log.With("handler", "WellbeingHandler"),
		wellbeingSvc: wellbeingSvc,
		rollupSvc:    rollupSvc,
		riskSvc:      riskSvc,
	}
}

// POST /api/wellbeing/events
func (h *WellbeingHandler) IngestEvent(c *gin.Context) {
	var body struct {
		Type    string                 `json:"type"`
		TS      *time.Time             `json:"ts"`
		Context map[string]interface{} `json:"context"`
	}
	if err := c.BindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	ev, err := h.wellbeingSvc.IngestEvent(c.Request.Context(), userID(c), services.IngestEventInput{
		Type:    types.EventType(body.Type),
		TS:      body.TS,
		Context: body.Context,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_event", err)
		return
	}
	RespondCreated(c, ev)
}

// POST /api/wellbeing/mood
func (h *WellbeingHandler) LogMood(c *gin.Context) {
	var body struct {
		Label      string     `json:"label"`
		Source     string     `json:"source"`
		TS         *time.Time `json:"ts"`
		Confidence float64    `json:"confidence"`
		Notes      string     `json:"notes"`
	}
	if err := c.BindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	ml, err := h.wellbeingSvc.LogMood(c.Request.Context(), userID(c), services.LogMoodInput{
		Label:      types.MoodLabel(body.Label),
		Source:     types.MoodSource(body.Source),
		TS:         body.TS,
		Confidence: body.Confidence,
		Notes:      body.Notes,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_mood", err)
		return
	}
	RespondCreated(c, ml)
}

// POST /api/wellbeing/mood/infer
func (h *WellbeingHandler) InferMood(c *gin.Context) {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.BindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	ml, err := h.wellbeingSvc.InferMood(c.Request.Context(), userID(c), body.Text)
	if err != nil {
		RespondError(c, http.StatusBadGateway, "inference_failed", err)
		return
	}
	RespondCreated(c, ml)
}

// POST /api/wellbeing/focus/start
func (h *WellbeingHandler) StartFocus(c *gin.Context) {
	var body struct {
		TaskID         string `json:"task_id"`
		PlannedMinutes int    `json:"planned_minutes"`
	}
	if err := c.BindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	fs, err := h.wellbeingSvc.StartFocus(c.Request.Context(), userID(c), services.StartFocusInput{
		TaskID:         body.TaskID,
		PlannedMinutes: body.PlannedMinutes,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondCreated(c, fs)
}

// POST /api/wellbeing/focus/:id/end
func (h *WellbeingHandler) EndFocus(c *gin.Context) {
	var body struct {
		ActualMinutes int `json:"actual_minutes"`
		Interruptions int `json:"interruptions"`
		QualityScore  int `json:"quality_score"`
	}
	if err := c.BindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	fs, err := h.wellbeingSvc.EndFocus(c.Request.Context(), userID(c), c.Param("id"), services.EndFocusInput{
		ActualMinutes: body.ActualMinutes,
		Interruptions: body.Interruptions,
		QualityScore:  body.QualityScore,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_session", err)
		return
	}
	RespondOK(c, fs)
}

// POST /api/wellbeing/rollup?day=2025-08-31
// On-demand recompute; the nightly job hits the same path.
func (h *WellbeingHandler) Rollup(c *gin.Context) {
	day := time.Now().UTC()
	if q := c.Query("day"); q != "" {
		parsed, err := time.Parse(types.RollupDateLayout, q)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
		day = parsed
	}
	rollup, err := h.rollupSvc.RollupDaily(c.Request.Context(), userID(c), day)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, rollup)
}

// GET /api/wellbeing/risk?window=daily
func (h *WellbeingHandler) Risk(c *gin.Context) {
	window := types.RiskWindow(c.DefaultQuery("window", string(types.WindowDaily)))
	if !window.Valid() {
		RespondError(c, http.StatusBadRequest, "bad_request", nil)
		return
	}
	rec, err := h.riskSvc.ComputeStressScore(c.Request.Context(), userID(c), window)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, rec)
}

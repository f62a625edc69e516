package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dodotask/dodotask-backend/internal/clients/hf"
	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/repos"
	"github.com/dodotask/dodotask-backend/internal/types"
)

type IngestEventInput struct {
	Type    types.EventType
	TS      *time.Time
	Context map[string]interface{}
}

type LogMoodInput struct {
	Label      types.MoodLabel
	Source     types.MoodSource
	TS         *time.Time
	Confidence float64
	Notes      string
}

type StartFocusInput struct {
	TaskID         string
	PlannedMinutes int
}

type EndFocusInput struct {
	ActualMinutes int
	Interruptions int
	QualityScore  int
}

// WellbeingService is the ingestion surface for the raw telemetry streams
// the rollup aggregator reads. Everything it writes is append-only except
// the single end-of-session update on focus sessions.
type WellbeingService interface {
	IngestEvent(ctx context.Context, userID string, in IngestEventInput) (*types.Event, error)
	LogMood(ctx context.Context, userID string, in LogMoodInput) (*types.MoodLog, error)
	// InferMood runs sentiment analysis over free text and stores the
	// result as a text_infer mood log.
	InferMood(ctx context.Context, userID, text string) (*types.MoodLog, error)
	StartFocus(ctx context.Context, userID string, in StartFocusInput) (*types.FocusSession, error)
	EndFocus(ctx context.Context, userID, sessionID string, in EndFocusInput) (*types.FocusSession, error)
}

type wellbeingService struct {
	log       *logger.Logger
	eventRepo repos.EventRepo
	moodRepo  repos.MoodLogRepo
	focusRepo repos.FocusSessionRepo
	hfClient  hf.Client // optional; nil disables mood inference
}

func NewWellbeingService(
	log *logger.Logger,
	eventRepo repos.EventRepo,
	moodRepo repos.MoodLogRepo,
	focusRepo repos.FocusSessionRepo,
	hfClient hf.Client,
) WellbeingService {
	return &wellbeingService{
		log:       log.With("service", "WellbeingService"),
		eventRepo: eventRepo,
		moodRepo:  moodRepo,
		focusRepo: focusRepo,
		hfClient:  hfClient,
	}
}

func (s *wellbeingService) IngestEvent(ctx context.Context, userID string, in IngestEventInput) (*types.Event, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("unknown event type %q", in.Type)
	}
	ts := time.Now().UTC()
	if in.TS != nil {
		ts = *in.TS
	}
	ev := &types.Event{
		EventID: uuid.NewString(),
		UserID:  userID,
		Type:    in.Type,
		TS:      ts,
		Context: in.Context,
	}
	if err := s.eventRepo.Insert(ctx, ev); err != nil {
		return nil, fmt.Errorf("ingest event: %w", err)
	}
	return ev, nil
}

func (s *wellbeingService) LogMood(ctx context.Context, userID string, in LogMoodInput) (*types.MoodLog, error) {
	if !in.Label.Valid() {
		return nil, fmt.Errorf("unknown mood label %q", in.Label)
	}
	if !in.Source.Valid() {
		return nil, fmt.Errorf("unknown mood source %q", in.Source)
	}
	if in.Confidence <= 0 || in.Confidence > 1 {
		in.Confidence = 1.0
	}
	ts := time.Now().UTC()
	if in.TS != nil {
		ts = *in.TS
	}
	ml := &types.MoodLog{
		MoodID:     uuid.NewString(),
		UserID:     userID,
		TS:         ts,
		Source:     in.Source,
		Label:      in.Label,
		Confidence: in.Confidence,
		Notes:      in.Notes,
	}
	if err := s.moodRepo.Insert(ctx, ml); err != nil {
		return nil, fmt.Errorf("log mood: %w", err)
	}
	return ml, nil
}

func (s *wellbeingService) InferMood(ctx context.Context, userID, text string) (*types.MoodLog, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	if s.hfClient == nil {
		return nil, fmt.Errorf("mood inference is not configured")
	}
	sentiment, err := s.hfClient.AnalyzeSentiment(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("infer mood: %w", err)
	}
	return s.LogMood(ctx, userID, LogMoodInput{
		Label:      moodLabelFromSentiment(sentiment.Label),
		Source:     types.MoodSourceTextInfer,
		Confidence: sentiment.Score,
		Notes:      text,
	})
}

// moodLabelFromSentiment maps the sentiment model's label space onto the
// closed mood enum.
func moodLabelFromSentiment(label string) types.MoodLabel {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "POSITIVE":
		return types.MoodPositive
	case "NEGATIVE":
		return types.MoodNegative
	default:
		return types.MoodNeutral
	}
}

func (s *wellbeingService) StartFocus(ctx context.Context, userID string, in StartFocusInput) (*types.FocusSession, error) {
	fs := &types.FocusSession{
		SessionID:      uuid.NewString(),
		UserID:         userID,
		TaskID:         in.TaskID,
		StartedAt:      time.Now().UTC(),
		PlannedMinutes: in.PlannedMinutes,
	}
	if err := s.focusRepo.Insert(ctx, fs); err != nil {
		return nil, fmt.Errorf("start focus session: %w", err)
	}
	return fs, nil
}

func (s *wellbeingService) EndFocus(ctx context.Context, userID, sessionID string, in EndFocusInput) (*types.FocusSession, error) {
	if in.ActualMinutes < 0 {
		return nil, fmt.Errorf("actual minutes must not be negative")
	}
	endedAt := time.Now().UTC()
	if err := s.focusRepo.End(ctx, userID, sessionID, endedAt, in.ActualMinutes, in.Interruptions, in.QualityScore); err != nil {
		return nil, err
	}
	return s.focusRepo.GetByID(ctx, userID, sessionID)
}

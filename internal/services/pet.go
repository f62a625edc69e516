package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dodotask/dodotask-backend/internal/clients/hf"
	"github.com/dodotask/dodotask-backend/internal/clients/redisc"
	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/repos"
	"github.com/dodotask/dodotask-backend/internal/types"
)

// fallbackChatReply is used whenever the text-generation collaborator is
// unconfigured or unreachable. Pet chat must always answer something.
const fallbackChatReply = "I’m here with you. Want to pick one small task and do it together?"

type PetState struct {
	Pet        *types.Pet             `json:"pet"`
	LatestRisk *types.RiskScoreRecord `json:"latest_risk,omitempty"`
}

// PetService reads companion-pet state and handles chat. The latest risk
// record comes from the redis cache when warm, the audit collection
// otherwise; neither path ever triggers a recomputation.
type PetService interface {
	GetState(ctx context.Context, userID string) (*PetState, error)
	Chat(ctx context.Context, userID, message string) (string, error)
	Rename(ctx context.Context, userID, name string) error
}

type petService struct {
	log      *logger.Logger
	petRepo  repos.PetRepo
	riskRepo repos.RiskScoreRepo
	cache    redisc.RiskCache // optional
	hfClient hf.Client        // optional
}

func NewPetService(log *logger.Logger, petRepo repos.PetRepo, riskRepo repos.RiskScoreRepo, cache redisc.RiskCache, hfClient hf.Client) PetService {
	return &petService{
		log:      log.With("service", "PetService"),
		petRepo:  petRepo,
		riskRepo: riskRepo,
		cache:    cache,
		hfClient: hfClient,
	}
}

func (s *petService) GetState(ctx context.Context, userID string) (*PetState, error) {
	pet, err := s.petRepo.GetByUser(ctx, userID)
	if errors.Is(err, repos.ErrNotFound) {
		// A user who has never been scored still has a pet to show.
		pet = &types.Pet{UserID: userID, Name: "Dodo", Mood: types.PetIdle, Energy: 100}
	} else if err != nil {
		return nil, fmt.Errorf("pet state: %w", err)
	}

	state := &PetState{Pet: pet}
	state.LatestRisk = s.latestRisk(ctx, userID)
	return state, nil
}

func (s *petService) latestRisk(ctx context.Context, userID string) *types.RiskScoreRecord {
	if s.cache != nil {
		rec, err := s.cache.GetLatest(ctx, userID)
		if err == nil {
			return rec
		}
		if !redisc.IsMiss(err) {
			s.log.Warn("Risk cache read failed, falling back to store", "user_id", userID, "error", err)
		}
	}
	rec, err := s.riskRepo.LatestByUser(ctx, userID)
	if errors.Is(err, repos.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.log.Warn("Failed to load latest risk score", "user_id", userID, "error", err)
		return nil
	}
	return rec
}

func (s *petService) Chat(ctx context.Context, userID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("message is required")
	}
	if s.hfClient == nil {
		return fallbackChatReply, nil
	}

	prompt := buildChatPrompt(message, s.latestRisk(ctx, userID))
	reply, err := s.hfClient.GenerateReply(ctx, prompt)
	if err != nil {
		s.log.Warn("Pet chat generation failed, using fallback", "user_id", userID, "error", err)
		return fallbackChatReply, nil
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return fallbackChatReply, nil
	}
	return reply, nil
}

// buildChatPrompt folds the latest stress picture into the persona prompt
// so the pet's tone tracks the user's day.
func buildChatPrompt(message string, latest *types.RiskScoreRecord) string {
	var b strings.Builder
	b.WriteString("You are Dodo, a small supportive companion pet inside a productivity app. ")
	b.WriteString("Reply in one or two warm, practical sentences.\n")
	if latest != nil {
		fmt.Fprintf(&b, "The user's current stress score is %.0f of 100 (%s).\n", latest.Score, latest.PetReaction)
	}
	b.WriteString("User: ")
	b.WriteString(message)
	b.WriteString("\nDodo:")
	return b.String()
}

func (s *petService) Rename(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	err := s.petRepo.Rename(ctx, userID, name)
	if errors.Is(err, repos.ErrNotFound) {
		// First rename before any score exists: create the doc on the fly.
		if uerr := s.petRepo.UpsertMood(ctx, userID, types.PetIdle); uerr != nil {
			return fmt.Errorf("rename pet: %w", uerr)
		}
		return s.petRepo.Rename(ctx, userID, name)
	}
	return err
}

package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RiskSignals is the explainability breakdown attached to every score.
// Known signals are typed; Extra is the escape hatch for signals added
// later without a schema change.
type RiskSignals struct {
	OverdueStreak        int                    `bson:"overdue_streak" json:"overdue_streak"`
	NegMood              int                    `bson:"neg_mood" json:"neg_mood"`
	SleepLow             bool                   `bson:"sleep_low" json:"sleep_low"`
	LateNightUsage       int                    `bson:"late_night_usage" json:"late_night_usage"`
	InterruptionsPerHour float64                `bson:"interruptions_per_hour" json:"interruptions_per_hour"`
	HydrationLow         bool                   `bson:"hydration_low" json:"hydration_low"`
	Extra                map[string]interface{} `bson:"extra,omitempty" json:"extra,omitempty"`
}

// RiskScoreRecord is the append-only audit trail of score computations.
type RiskScoreRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID      string             `bson:"user_id" json:"user_id"`
	TS          time.Time          `bson:"ts" json:"ts"`
	Window      RiskWindow         `bson:"window" json:"window"`
	Score       float64            `bson:"score" json:"score"` // 0..100
	Signals     RiskSignals        `bson:"signals" json:"signals"`
	PetReaction PetReaction        `bson:"pet_reaction" json:"pet_reaction"`
	Suggestion  string             `bson:"suggestion" json:"suggestion"`
}

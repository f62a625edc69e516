package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is an append-only behavioral fact. Context carries type-specific
// fields (task_id, minutes, ...); it stays an open map on purpose.
type Event struct {
	ID      primitive.ObjectID     `bson:"_id,omitempty" json:"-"`
	EventID string                 `bson:"event_id" json:"event_id"`
	UserID  string                 `bson:"user_id" json:"user_id"`
	Type    EventType              `bson:"type" json:"type"`
	TS      time.Time              `bson:"ts" json:"ts"`
	Context map[string]interface{} `bson:"context,omitempty" json:"context,omitempty"`
}

// MoodLog is append-only.
type MoodLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	MoodID     string             `bson:"mood_id" json:"mood_id"`
	UserID     string             `bson:"user_id" json:"user_id"`
	TS         time.Time          `bson:"ts" json:"ts"`
	Source     MoodSource         `bson:"source" json:"source"`
	Label      MoodLabel          `bson:"label" json:"label"`
	Confidence float64            `bson:"confidence" json:"confidence"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// FocusSession is created at start and updated once at end; ActualMinutes
// stays nil while the session is running.
type FocusSession struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SessionID      string             `bson:"session_id" json:"session_id"`
	UserID         string             `bson:"user_id" json:"user_id"`
	TaskID         string             `bson:"task_id,omitempty" json:"task_id,omitempty"`
	StartedAt      time.Time          `bson:"started_at" json:"started_at"`
	EndedAt        *time.Time         `bson:"ended_at" json:"ended_at"`
	PlannedMinutes int                `bson:"planned_minutes" json:"planned_minutes"`
	ActualMinutes  *int               `bson:"actual_minutes" json:"actual_minutes"`
	Interruptions  int                `bson:"interruptions" json:"interruptions"`
	QualityScore   int                `bson:"quality_score" json:"quality_score"`
}

package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is mutated only on the start/complete transitions. due_date is kept
// as the string the client submitted (a pure date or a datetime); the
// recommender normalizes both shapes to a day before subtracting.
type Task struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	TaskID        string             `bson:"task_id" json:"task_id"`
	UserID        string             `bson:"user_id" json:"user_id"`
	Title         string             `bson:"title" json:"title"`
	Category      TaskCategory       `bson:"category" json:"category"`
	Priority      int                `bson:"priority" json:"priority"` // 1=high .. 3=low
	EstimatedTime int                `bson:"estimated_time,omitempty" json:"estimated_time,omitempty"`
	DueDate       *string            `bson:"due_date" json:"due_date"`
	Status        TaskStatus         `bson:"status" json:"status"`
	CompletedAt   *time.Time         `bson:"completed_at" json:"completed_at"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// CompletionSample is the projection mined by the due-date recommender.
// Both fields decode as interface{} because historical documents may hold
// either BSON datetimes or ISO strings; the recommender parses each record
// explicitly and skips the ones it cannot normalize.
type CompletionSample struct {
	CompletedAt interface{} `bson:"completed_at"`
	DueDate     interface{} `bson:"due_date"`
}

// DueDateRecommendation is returned by the recommender; a nil
// recommendation (with nil error) means no chronic delay was detected.
type DueDateRecommendation struct {
	TaskID       string `json:"task_id"`
	CurrentDue   string `json:"current_due"`
	SuggestedDue string `json:"suggested_due"`
	Reason       string `json:"reason"`
}

package types

import "go.mongodb.org/mongo-driver/bson/primitive"

// RollupDateLayout is the key format for the daily rollup collection.
const RollupDateLayout = "2006-01-02"

// DailyUsageRollup is the derived one-row-per-(user,day) summary.
// Recomputing for the same key upserts in place; duplicates never appear.
type DailyUsageRollup struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID               string             `bson:"user_id" json:"user_id"`
	Date                 string             `bson:"date" json:"date"` // YYYY-MM-DD
	TasksCompleted       int                `bson:"tasks_completed" json:"tasks_completed"`
	OverdueCount         int                `bson:"overdue_count" json:"overdue_count"`
	AvgPriorityCompleted *float64           `bson:"avg_priority_completed" json:"avg_priority_completed"`
	TotalFocusMinutes    int                `bson:"total_focus_minutes" json:"total_focus_minutes"`
	BreaksTaken          int                `bson:"breaks_taken" json:"breaks_taken"`
	HydrationCount       int                `bson:"hydration_count" json:"hydration_count"`
	SleepMinutes         int                `bson:"sleep_minutes" json:"sleep_minutes"`
	MoodNegativeCount    int                `bson:"mood_negative_count" json:"mood_negative_count"`
	LateNightUsage       int                `bson:"late_night_usage" json:"late_night_usage"`
}

package services

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dayWindow returns the [00:00:00, 23:59:59.999...] bounds of the calendar
// day containing t, in t's own location. Timestamps are compared as stored;
// no timezone conversion happens anywhere in the aggregation path.
func dayWindow(t time.Time) (time.Time, time.Time) {
	start := dateOf(t)
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

// dateOf truncates t to midnight without changing its location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dayLayouts are the shapes due_date/completed_at have been stored in over
// time: pure dates, naive datetimes, and RFC3339 with or without fractions.
var dayLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339,
	time.RFC3339Nano,
}

// parseDay normalizes a stored date value to midnight of its calendar day.
// It accepts native times, BSON datetimes and the string encodings above.
// The second return is false for anything unparsable; callers skip those
// records instead of aborting (one bad record must not corrupt a rollup or
// recommendation).
func parseDay(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return dateOf(val), true
	case primitive.DateTime:
		return dateOf(val.Time()), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dayLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return dateOf(t), true
			}
		}
		// Stored by an old writer as "...Z" without an offset-capable layout.
		if t, err := time.Parse("2006-01-02T15:04:05Z", s); err == nil {
			return dateOf(t), true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// daysBetween is the whole-day difference b-a between two midnights.
// Rounding absorbs the 23h/25h days around DST transitions.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

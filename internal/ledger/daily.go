package ledger

import (
	"time"

	"wellness-tracker/internal/model"
)

// DefaultGoal is the number of activities to complete per day.
const DefaultGoal = 3

const dayLayout = "2006-01-02"

// DailyProgress is the in-memory daily counter of one session.
type DailyProgress struct {
	Completed int    `json:"completed"`
	Goal      int    `json:"goal"`
	Day       string `json:"day"`
}

// DayKey returns the device-local calendar date of t.
func DayKey(t time.Time) string {
	return t.In(time.Local).Format(dayLayout)
}

// Midnight returns the start of the local calendar day containing t.
func Midnight(t time.Time) time.Time {
	lt := t.In(time.Local)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.Local)
}

// CheckAndReset returns a zeroed bucket for today when current belongs to
// another day. The second result reports whether a reset happened, in which
// case per-activity progress shown to the user must be zeroed too.
func CheckAndReset(current DailyProgress, today string) (DailyProgress, bool) {
	if current.Day == today {
		return current, false
	}
	return DailyProgress{Completed: 0, Goal: current.Goal, Day: today}, true
}

// CompletedOn counts distinct activities with a completed history entry on day.
func CompletedOn(history []model.HistoryEntry, day string) int {
	seen := make(map[string]struct{})
	for _, entry := range history {
		if entry.Progress < 100 || DayKey(entry.LastUpdated) != day {
			continue
		}
		seen[entry.ActivityID] = struct{}{}
	}
	return len(seen)
}

// Clamp bounds a requested percentage to [0, 100].
func Clamp(progress int) int {
	switch {
	case progress < 0:
		return 0
	case progress > 100:
		return 100
	default:
		return progress
	}
}

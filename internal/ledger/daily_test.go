package ledger

import (
	"testing"
	"time"

	"wellness-tracker/internal/model"
)

func TestCheckAndReset(t *testing.T) {
	current := DailyProgress{Completed: 2, Goal: 3, Day: "2024-01-01"}

	got, reset := CheckAndReset(current, "2024-01-02")
	if !reset {
		t.Fatalf("expected reset")
	}
	want := DailyProgress{Completed: 0, Goal: 3, Day: "2024-01-02"}
	if got != want {
		t.Fatalf("CheckAndReset=%+v, want %+v", got, want)
	}

	got, reset = CheckAndReset(current, "2024-01-01")
	if reset || got != current {
		t.Fatalf("same day: got %+v reset=%v, want unchanged", got, reset)
	}
}

func TestDayKeyAndMidnight(t *testing.T) {
	ts := time.Date(2024, 3, 9, 23, 59, 59, 0, time.Local)
	if got := DayKey(ts); got != "2024-03-09" {
		t.Fatalf("DayKey=%s, want 2024-03-09", got)
	}
	mid := Midnight(ts)
	if mid.Hour() != 0 || mid.Minute() != 0 || DayKey(mid) != "2024-03-09" {
		t.Fatalf("Midnight=%v", mid)
	}
}

func TestCompletedOnIgnoresPartialAndOtherDays(t *testing.T) {
	at := time.Date(2024, 3, 9, 12, 0, 0, 0, time.Local)
	history := []model.HistoryEntry{
		{ActivityID: "a", Progress: 100, LastUpdated: at},
		{ActivityID: "a", Progress: 100, LastUpdated: at.Add(time.Hour)},
		{ActivityID: "b", Progress: 99, LastUpdated: at},
		{ActivityID: "c", Progress: 100, LastUpdated: at.AddDate(0, 0, -1)},
	}
	if got := CompletedOn(history, "2024-03-09"); got != 1 {
		t.Fatalf("CompletedOn=%d, want 1", got)
	}
}

func TestClamp(t *testing.T) {
	for in, want := range map[int]int{-1: 0, 0: 0, 42: 42, 100: 100, 101: 100} {
		if got := Clamp(in); got != want {
			t.Fatalf("Clamp(%d)=%d, want %d", in, got, want)
		}
	}
}

package ledger

import (
	"sync"

	"wellness-tracker/internal/model"
)

// Session is the state of one logged-in user. It is created on login and
// dropped on logout; a nil Session or one with a nil User is logged out.
// Callers from outside the package hold the embedded mutex while touching
// fields directly.
type Session struct {
	sync.Mutex

	User        *model.User
	Daily       DailyProgress
	Progress    map[string]int
	History     []model.HistoryEntry
	Catalog     []model.Category
	Favorites   map[string]bool
	TodayMood   *int
	MoodHistory []model.MoodEntry
}

// NewSession returns an empty session for user with the bucket set to today.
func NewSession(user *model.User, goal int, today string) *Session {
	if goal <= 0 {
		goal = DefaultGoal
	}
	return &Session{
		User:      user,
		Daily:     DailyProgress{Goal: goal, Day: today},
		Progress:  make(map[string]int),
		Favorites: make(map[string]bool),
	}
}

// View is a copy of session state safe to render without holding the lock.
type View struct {
	User        *model.User
	Daily       DailyProgress
	Catalog     []model.Category
	History     []model.HistoryEntry
	TodayMood   *int
	MoodHistory []model.MoodEntry
}

// Snapshot copies the session, filling per-user progress and favorite flags
// into the catalog.
func (s *Session) Snapshot() View {
	s.Lock()
	defer s.Unlock()

	catalog := make([]model.Category, len(s.Catalog))
	for i, cat := range s.Catalog {
		activities := make([]model.Activity, len(cat.Activities))
		for j, a := range cat.Activities {
			a.Progress = s.Progress[a.ID]
			a.Favorite = s.Favorites[a.ID]
			activities[j] = a
		}
		cat.Activities = activities
		catalog[i] = cat
	}

	view := View{
		User:        s.User,
		Daily:       s.Daily,
		Catalog:     catalog,
		History:     make([]model.HistoryEntry, len(s.History)),
		MoodHistory: make([]model.MoodEntry, len(s.MoodHistory)),
	}
	copy(view.History, s.History)
	copy(view.MoodHistory, s.MoodHistory)
	if s.TodayMood != nil {
		mood := *s.TodayMood
		view.TodayMood = &mood
	}
	return view
}

// FindActivity looks an activity up in the loaded catalog. The lock must be held.
func (s *Session) FindActivity(activityID string) (model.Activity, model.Category, bool) {
	for _, cat := range s.Catalog {
		for _, a := range cat.Activities {
			if a.ID == activityID {
				return a, cat, true
			}
		}
	}
	return model.Activity{}, model.Category{}, false
}

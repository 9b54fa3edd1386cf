package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"wellness-tracker/internal/ledger"
	"wellness-tracker/internal/model"
	"wellness-tracker/internal/repository"
)

type testEnv struct {
	ctx        context.Context
	now        time.Time
	users      *repository.UserRepository
	progress   *repository.ProgressRepository
	history    *repository.HistoryRepository
	favorites  *repository.FavoriteRepository
	ledger     *ledger.Ledger
	activities *ActivityService
	moods      *MoodService
	sessions   *SessionManager
	closeDB    func()
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	categories := repository.NewCategoryRepository(db)
	if err := categories.Seed(ctx, repository.DefaultCatalog()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	env := &testEnv{
		ctx:       ctx,
		now:       time.Date(2024, 1, 2, 10, 0, 0, 0, time.Local),
		users:     repository.NewUserRepository(db),
		progress:  repository.NewProgressRepository(db),
		history:   repository.NewHistoryRepository(db),
		favorites: repository.NewFavoriteRepository(db),
		closeDB:   func() { _ = sqlDB.Close() },
	}
	clock := func() time.Time { return env.now }
	env.ledger = ledger.New(repository.NewGateway(db), ledger.DefaultGoal, ledger.WithClock(clock))
	env.activities = NewActivityService(categories, env.favorites, env.ledger)
	env.moods = NewMoodService(repository.NewMoodRepository(db), clock)
	env.sessions = NewSessionManager(env.ledger, env.activities, env.moods)
	return env
}

func (e *testEnv) login(t *testing.T) *ledger.Session {
	t.Helper()
	user, err := e.users.UpsertFromTelegram(e.ctx, 42, "Ana", "", "ana")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	s, err := e.sessions.Login(e.ctx, user)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return s
}

func TestLoginLoadsCatalogAndTodayCompletions(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.users.UpsertFromTelegram(env.ctx, 42, "Ana", "", "ana")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	for _, id := range []string{"101", "201"} {
		if err := env.history.Append(env.ctx, &model.HistoryEntry{UserID: user.ID, ActivityID: id, Progress: 100, LastUpdated: env.now.Add(-time.Hour)}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := env.history.Append(env.ctx, &model.HistoryEntry{UserID: user.ID, ActivityID: "301", Progress: 100, LastUpdated: env.now.AddDate(0, 0, -1)}); err != nil {
		t.Fatalf("append: %v", err)
	}

	s, err := env.sessions.Login(env.ctx, user)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	view := s.Snapshot()
	if view.Daily.Completed != 2 {
		t.Fatalf("Completed=%d, want 2", view.Daily.Completed)
	}
	if len(view.Catalog) != 4 {
		t.Fatalf("catalog categories=%d, want 4", len(view.Catalog))
	}
	if len(view.History) != 3 {
		t.Fatalf("history=%d, want 3", len(view.History))
	}
	if env.sessions.Get(user.ID) != s {
		t.Fatalf("session not registered")
	}
}

func TestCompletePersistsProgressAndHistory(t *testing.T) {
	env := newTestEnv(t)
	s := env.login(t)

	ok, err := env.activities.Complete(env.ctx, s, "101")
	if err != nil || !ok {
		t.Fatalf("Complete = %v, %v", ok, err)
	}

	stored, err := env.progress.Since(env.ctx, s.User.ID, ledger.Midnight(env.now))
	if err != nil {
		t.Fatalf("read progress: %v", err)
	}
	if stored["101"] != 100 {
		t.Fatalf("stored=%d, want 100", stored["101"])
	}

	entries, err := env.history.ListByUser(env.ctx, s.User.ID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("history=%d, want 1", len(entries))
	}
	if entries[0].ActivityTitle != "Meditación para reducir ansiedad" || entries[0].CategoryName != "Meditaciones" {
		t.Fatalf("entry=%+v", entries[0])
	}

	view := s.Snapshot()
	if view.Daily.Completed != 1 {
		t.Fatalf("Completed=%d, want 1", view.Daily.Completed)
	}
	if got := view.Catalog[0].Activities[0].Progress; got != 100 {
		t.Fatalf("catalog progress=%d, want 100", got)
	}
}

func TestUpdateProgressUnknownActivity(t *testing.T) {
	env := newTestEnv(t)
	s := env.login(t)

	if _, err := env.activities.UpdateProgress(env.ctx, s, "999", 50); !errors.Is(err, ErrUnknownActivity) {
		t.Fatalf("err=%v, want ErrUnknownActivity", err)
	}
}

func TestRecordPlaybackThrottles(t *testing.T) {
	env := newTestEnv(t)
	s := env.login(t)
	minute := time.Minute

	steps := []struct {
		pos      time.Duration
		reported bool
	}{
		{2 * time.Second, false},
		{30 * time.Second, true},
		{31 * time.Second, false},
		{minute, true},
	}
	for _, step := range steps {
		reported, accepted, err := env.activities.RecordPlayback(env.ctx, s, "401", step.pos, minute)
		if err != nil {
			t.Fatalf("RecordPlayback(%v): %v", step.pos, err)
		}
		if reported != step.reported || accepted != step.reported {
			t.Fatalf("RecordPlayback(%v) = %v, %v; want %v", step.pos, reported, accepted, step.reported)
		}
	}
	if got := s.Snapshot().Daily.Completed; got != 1 {
		t.Fatalf("Completed=%d, want 1", got)
	}
}

func TestToggleFavorite(t *testing.T) {
	env := newTestEnv(t)
	s := env.login(t)

	fav, err := env.activities.ToggleFavorite(env.ctx, s, "302")
	if err != nil || !fav {
		t.Fatalf("ToggleFavorite = %v, %v; want true", fav, err)
	}
	ids, err := env.favorites.ListActivityIDs(env.ctx, s.User.ID)
	if err != nil {
		t.Fatalf("list favorites: %v", err)
	}
	if len(ids) != 1 || ids[0] != "302" {
		t.Fatalf("favorites=%v, want [302]", ids)
	}

	fav, err = env.activities.ToggleFavorite(env.ctx, s, "302")
	if err != nil || fav {
		t.Fatalf("second ToggleFavorite = %v, %v; want false", fav, err)
	}
	if _, err := env.activities.ToggleFavorite(env.ctx, s, "nope"); !errors.Is(err, ErrUnknownActivity) {
		t.Fatalf("err=%v, want ErrUnknownActivity", err)
	}
}

func TestToggleFavoriteRollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t)
	s := env.login(t)
	env.closeDB()

	if _, err := env.activities.ToggleFavorite(env.ctx, s, "302"); err == nil {
		t.Fatalf("expected error with closed db")
	}
	s.Lock()
	defer s.Unlock()
	if s.Favorites["302"] {
		t.Fatalf("favorite not rolled back")
	}
}

func TestSaveDailyMoodOncePerDay(t *testing.T) {
	env := newTestEnv(t)
	s := env.login(t)

	if err := env.moods.SaveDailyMood(env.ctx, s, model.MoodGood); err != nil {
		t.Fatalf("SaveDailyMood: %v", err)
	}
	if err := env.moods.SaveDailyMood(env.ctx, s, model.MoodSad); !errors.Is(err, ErrMoodAlreadyRecorded) {
		t.Fatalf("err=%v, want ErrMoodAlreadyRecorded", err)
	}
	if err := env.moods.SaveDailyMood(env.ctx, s, 7); !errors.Is(err, ErrInvalidMood) {
		t.Fatalf("err=%v, want ErrInvalidMood", err)
	}
	view := s.Snapshot()
	if view.TodayMood == nil || *view.TodayMood != model.MoodGood {
		t.Fatalf("TodayMood=%v, want %d", view.TodayMood, model.MoodGood)
	}

	env.now = env.now.AddDate(0, 0, 1)
	if err := env.moods.SaveDailyMood(env.ctx, s, model.MoodTired); err != nil {
		t.Fatalf("SaveDailyMood next day: %v", err)
	}
	view = s.Snapshot()
	if len(view.MoodHistory) != 2 {
		t.Fatalf("mood history=%d, want 2", len(view.MoodHistory))
	}
	if view.MoodHistory[0].MoodIndex != model.MoodTired {
		t.Fatalf("newest mood=%d, want %d", view.MoodHistory[0].MoodIndex, model.MoodTired)
	}
}

func TestLogoutMakesSessionInert(t *testing.T) {
	env := newTestEnv(t)
	s := env.login(t)
	userID := s.User.ID

	if !env.sessions.Logout(userID) {
		t.Fatalf("Logout returned false")
	}
	if env.sessions.Get(userID) != nil {
		t.Fatalf("session still registered")
	}

	ok, err := env.activities.Complete(env.ctx, s, "101")
	if ok || err != nil {
		t.Fatalf("Complete after logout = %v, %v; want false, nil", ok, err)
	}
	if err := env.moods.SaveDailyMood(env.ctx, s, model.MoodGood); !errors.Is(err, ledger.ErrNoSession) {
		t.Fatalf("err=%v, want ErrNoSession", err)
	}
	if env.sessions.Logout(userID) {
		t.Fatalf("second Logout returned true")
	}
}

func TestResetStaleAcrossMidnight(t *testing.T) {
	env := newTestEnv(t)
	s := env.login(t)
	if _, err := env.activities.Complete(env.ctx, s, "101"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if n := env.sessions.ResetStale(); n != 0 {
		t.Fatalf("ResetStale same day=%d, want 0", n)
	}
	env.now = env.now.AddDate(0, 0, 1)
	if n := env.sessions.ResetStale(); n != 1 {
		t.Fatalf("ResetStale=%d, want 1", n)
	}
	view := s.Snapshot()
	if view.Daily.Completed != 0 || view.Daily.Day != "2024-01-03" {
		t.Fatalf("Daily=%+v", view.Daily)
	}
	if got := view.Catalog[0].Activities[0].Progress; got != 0 {
		t.Fatalf("catalog progress after reset=%d, want 0", got)
	}
}

func TestDailySummary(t *testing.T) {
	env := newTestEnv(t)
	s := env.login(t)
	if _, err := env.activities.Complete(env.ctx, s, "201"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := env.moods.SaveDailyMood(env.ctx, s, model.MoodNeutral); err != nil {
		t.Fatalf("SaveDailyMood: %v", err)
	}

	reports := NewReportService(time.Local)
	text := reports.DailySummary(s.Snapshot(), env.now)
	for _, want := range []string{"1/3", "Respiración consciente", "Neutral"} {
		if !strings.Contains(text, want) {
			t.Fatalf("summary missing %q:\n%s", want, text)
		}
	}

	if got := reports.HistorySummary(s.Snapshot(), 5); !strings.Contains(got, "Respiración consciente") {
		t.Fatalf("history summary:\n%s", got)
	}
	if got := reports.MoodSummary(s.Snapshot(), 5); !strings.Contains(got, "Neutral") {
		t.Fatalf("mood summary:\n%s", got)
	}
}

func TestProgressBar(t *testing.T) {
	if got := ProgressBar(50, 10); got != "▰▰▰▰▰▱▱▱▱▱ 50%" {
		t.Fatalf("ProgressBar(50)=%q", got)
	}
	if got := ProgressBar(250, 4); got != "▰▰▰▰ 100%" {
		t.Fatalf("ProgressBar(250)=%q", got)
	}
}

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("07:30")
	if err != nil {
		t.Fatalf("buildDailySpec: %v", err)
	}
	if spec != "0 30 7 * * *" {
		t.Fatalf("spec=%q, want %q", spec, "0 30 7 * * *")
	}
	for _, bad := range []string{"25:00", "7", "ab:cd"} {
		if _, err := buildDailySpec(bad); err == nil {
			t.Fatalf("buildDailySpec(%q) succeeded", bad)
		}
	}
}

func TestConcurrentLoginsShareOneSession(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.users.UpsertFromTelegram(env.ctx, 42, "Ana", "", "ana")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	const callers = 8
	sessions := make([]*ledger.Session, callers)
	errs := make([]error, callers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			if i%2 == 0 {
				sessions[i], errs[i] = env.sessions.Ensure(env.ctx, user)
			} else {
				sessions[i], errs[i] = env.sessions.Login(env.ctx, user)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	stored := env.sessions.Get(user.ID)
	if stored == nil {
		t.Fatalf("no session registered")
	}
	for i, s := range sessions {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if s != stored {
			t.Fatalf("caller %d got a session that is not the registered one", i)
		}
	}

	if ok, err := env.activities.Complete(env.ctx, sessions[callers-1], "101"); !ok || err != nil {
		t.Fatalf("Complete = %v, %v", ok, err)
	}
	if got := env.sessions.Get(user.ID).Snapshot().Daily.Completed; got != 1 {
		t.Fatalf("registered Completed=%d, want 1", got)
	}
}

func TestLoginReloadsOpenSession(t *testing.T) {
	env := newTestEnv(t)
	s := env.login(t)
	if _, err := env.activities.Complete(env.ctx, s, "101"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	again, err := env.sessions.Login(env.ctx, s.User)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if again != s {
		t.Fatalf("Login replaced the open session")
	}
	if got := again.Snapshot().Daily.Completed; got != 1 {
		t.Fatalf("Completed=%d after reload, want 1", got)
	}
}

func TestResetStaleClearsTodayMood(t *testing.T) {
	env := newTestEnv(t)
	s := env.login(t)
	if err := env.moods.SaveDailyMood(env.ctx, s, model.MoodSad); err != nil {
		t.Fatalf("SaveDailyMood: %v", err)
	}

	env.now = env.now.Add(24 * time.Hour)
	if n := env.sessions.ResetStale(); n != 1 {
		t.Fatalf("ResetStale=%d, want 1", n)
	}
	view := s.Snapshot()
	if view.TodayMood != nil {
		t.Fatalf("TodayMood=%d kept after rolling to %s", *view.TodayMood, view.Daily.Day)
	}
	if len(view.MoodHistory) != 1 {
		t.Fatalf("mood history=%d, want 1", len(view.MoodHistory))
	}
	if err := env.moods.SaveDailyMood(env.ctx, s, model.MoodGood); err != nil {
		t.Fatalf("SaveDailyMood next day: %v", err)
	}
}

func TestUpdateProgressWithoutCatalogUsesStore(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.users.UpsertFromTelegram(env.ctx, 7, "Luis", "", "luis")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	s := env.ledger.NewSession(user)

	if _, err := env.activities.UpdateProgress(env.ctx, s, "999", 50); !errors.Is(err, ErrUnknownActivity) {
		t.Fatalf("err=%v, want ErrUnknownActivity", err)
	}
	ok, err := env.activities.UpdateProgress(env.ctx, s, "202", 100)
	if err != nil || !ok {
		t.Fatalf("UpdateProgress = %v, %v", ok, err)
	}
	if got := s.Snapshot().Daily.Completed; got != 1 {
		t.Fatalf("Completed=%d, want 1", got)
	}
}

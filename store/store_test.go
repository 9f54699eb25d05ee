package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Bekzhanizb/GreenVerseBackend/config"
	"github.com/Bekzhanizb/GreenVerseBackend/db"
	"github.com/Bekzhanizb/GreenVerseBackend/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Connect(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "store.db"),
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return New(conn)
}

func seedUser(t *testing.T, s *Store, id string) *models.User {
	t.Helper()
	u := &models.User{
		ID:           id,
		Email:        id + "@example.com",
		Username:     id,
		FirstName:    "Plant",
		LastName:     "Expert",
		PasswordHash: "hash",
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
	return u
}

func TestCreateUserConflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "alice")

	tests := []struct {
		name string
		user models.User
	}{
		{"same email", models.User{ID: "u2", Email: "alice@example.com", Username: "other"}},
		{"same username", models.User{ID: "u3", Email: "other@example.com", Username: "alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			err := s.CreateUser(ctx, &u)
			if !errors.Is(err, models.ErrConflict) {
				t.Fatalf("expected ErrConflict, got %v", err)
			}
		})
	}

	if err := s.CreateUser(ctx, &models.User{ID: "u4"}); !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty user, got %v", err)
	}
}

func TestGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "bob")

	u, err := s.GetUserByEmail(ctx, "bob@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u.ID != "bob" {
		t.Errorf("expected id bob, got %s", u.ID)
	}

	if _, err := s.GetUserByUsername(ctx, "bob"); err != nil {
		t.Errorf("get by username: %v", err)
	}

	if _, err := s.GetUserByID(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPlantAnalysesNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "carol")
	seedUser(t, s, "dave")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		a := &models.PlantAnalysis{
			ID:               fmt.Sprintf("a%d", i),
			UserID:           "carol",
			ImageRef:         "img.jpg",
			DehydrationLevel: models.WellHydrated,
			Symptoms:         []string{"Healthy appearance"},
			CreatedAt:        base.Add(time.Duration(i) * time.Hour),
		}
		if err := s.CreatePlantAnalysis(ctx, a); err != nil {
			t.Fatalf("create analysis: %v", err)
		}
	}
	other := &models.PlantAnalysis{ID: "x", UserID: "dave", ImageRef: "i", DehydrationLevel: models.WellHydrated, CreatedAt: base}
	if err := s.CreatePlantAnalysis(ctx, other); err != nil {
		t.Fatalf("create analysis: %v", err)
	}

	list, err := s.ListPlantAnalyses(ctx, "carol")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 analyses, got %d", len(list))
	}
	for i, want := range []string{"a2", "a1", "a0"} {
		if list[i].ID != want {
			t.Errorf("position %d: want %s got %s", i, want, list[i].ID)
		}
	}
	if len(list[0].Symptoms) != 1 || list[0].Symptoms[0] != "Healthy appearance" {
		t.Errorf("symptoms not round-tripped: %v", list[0].Symptoms)
	}
	if list[0].Recommendations == nil || list[0].CureSuggestions == nil {
		t.Error("expected empty list fields to be non-nil")
	}

	dup := &models.PlantAnalysis{ID: "a0", UserID: "carol", ImageRef: "i", DehydrationLevel: models.WellHydrated}
	if err := s.CreatePlantAnalysis(ctx, dup); !errors.Is(err, models.ErrConflict) {
		t.Errorf("expected ErrConflict on duplicate id, got %v", err)
	}

	if _, err := s.GetPlantAnalysis(ctx, "dave", "a0"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected other user's report to be hidden, got %v", err)
	}
	if got, err := s.GetPlantAnalysis(ctx, "carol", "a1"); err != nil || got.ID != "a1" {
		t.Errorf("get analysis: %v %+v", err, got)
	}
}

func TestQuizAttemptValidationAndStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "erin")

	invalid := []models.QuizAttempt{
		{ID: "bad1", UserID: "erin", Level: "expert", Score: 1, TotalQuestions: 10},
		{ID: "bad2", UserID: "erin", Level: models.LevelEasy, Score: 11, TotalQuestions: 10},
		{ID: "bad3", UserID: "erin", Level: models.LevelEasy, Score: -1, TotalQuestions: 10},
		{ID: "bad4", UserID: "erin", Level: models.LevelEasy, Score: 0, TotalQuestions: 0},
	}
	for _, a := range invalid {
		a := a
		if err := s.CreateQuizAttempt(ctx, &a); !errors.Is(err, models.ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", a.ID, err)
		}
	}

	now := time.Now().UTC()
	for i, score := range []int{6, 10, 8} {
		a := &models.QuizAttempt{ID: fmt.Sprintf("q%d", i), UserID: "erin", Level: models.LevelEasy, Score: score, TotalQuestions: 10, CompletedAt: now}
		if err := s.CreateQuizAttempt(ctx, a); err != nil {
			t.Fatalf("create attempt: %v", err)
		}
	}
	hard := &models.QuizAttempt{ID: "h0", UserID: "erin", Level: models.LevelHard, Score: 3, TotalQuestions: 10, CompletedAt: now}
	if err := s.CreateQuizAttempt(ctx, hard); err != nil {
		t.Fatalf("create attempt: %v", err)
	}

	stats, err := s.AggregateQuizStats(ctx, "erin")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	easy := stats[models.LevelEasy]
	if easy.Attempts != 3 || easy.AvgScore != 8 || easy.BestScore == nil || *easy.BestScore != 10 {
		t.Errorf("unexpected easy stats: %+v", easy)
	}
	if h := stats[models.LevelHard]; h.Attempts != 1 || *h.BestScore != 3 {
		t.Errorf("unexpected hard stats: %+v", h)
	}
	if hardest := stats[models.LevelHardest]; hardest.Attempts != 0 || hardest.BestScore != nil {
		t.Errorf("expected empty hardest stats, got %+v", hardest)
	}
}

func TestAchievementsAndUnawardedAttempts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "fay")

	now := time.Now().UTC()
	for i, score := range []int{10, 10, 7} {
		a := &models.QuizAttempt{ID: fmt.Sprintf("p%d", i), UserID: "fay", Level: models.LevelHard, Score: score, TotalQuestions: 10, CompletedAt: now.Add(time.Duration(i) * time.Minute)}
		if err := s.CreateQuizAttempt(ctx, a); err != nil {
			t.Fatalf("create attempt: %v", err)
		}
	}

	first := &models.Achievement{ID: "ach0", UserID: "fay", QuizAttemptID: "p0", FlowerTitle: "Rose Guardian", FlowerImageRef: "img", Level: models.LevelHard, EarnedAt: now}
	if err := s.CreateAchievement(ctx, first); err != nil {
		t.Fatalf("create achievement: %v", err)
	}
	again := &models.Achievement{ID: "ach1", UserID: "fay", QuizAttemptID: "p0", FlowerTitle: "Lily Master", FlowerImageRef: "img", Level: models.LevelHard, EarnedAt: now}
	if err := s.CreateAchievement(ctx, again); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("expected ErrConflict for second award of one attempt, got %v", err)
	}

	pending, err := s.ListUnawardedPerfectAttempts(ctx, "fay")
	if err != nil {
		t.Fatalf("list unawarded: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "p1" {
		t.Fatalf("expected only p1 pending, got %+v", pending)
	}

	later := &models.Achievement{ID: "ach2", UserID: "fay", QuizAttemptID: "p1", FlowerTitle: "Rose Guardian", FlowerImageRef: "img", Level: models.LevelHard, EarnedAt: now.Add(time.Hour)}
	if err := s.CreateAchievement(ctx, later); err != nil {
		t.Fatalf("create achievement: %v", err)
	}

	list, err := s.ListAchievements(ctx, "fay")
	if err != nil {
		t.Fatalf("list achievements: %v", err)
	}
	if len(list) != 2 || list[0].ID != "ach2" || list[1].ID != "ach0" {
		t.Fatalf("unexpected achievements order: %+v", list)
	}
}

func TestQuizLeaderboard(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "gus")
	seedUser(t, s, "hal")

	now := time.Now().UTC()
	attempts := []models.QuizAttempt{
		{ID: "l1", UserID: "gus", Level: models.LevelEasy, Score: 5, TotalQuestions: 10, CompletedAt: now},
		{ID: "l2", UserID: "hal", Level: models.LevelHardest, Score: 10, TotalQuestions: 10, CompletedAt: now},
		{ID: "l3", UserID: "gus", Level: models.LevelHard, Score: 8, TotalQuestions: 10, CompletedAt: now},
	}
	for i := range attempts {
		if err := s.CreateQuizAttempt(ctx, &attempts[i]); err != nil {
			t.Fatalf("create attempt: %v", err)
		}
	}

	board, err := s.QuizLeaderboard(ctx, 2)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("expected limit of 2 entries, got %d", len(board))
	}
	if board[0].Username != "hal" || board[0].Percentage != 100 {
		t.Errorf("unexpected leader: %+v", board[0])
	}
	if board[1].Username != "gus" || board[1].Score != 8 {
		t.Errorf("unexpected runner-up: %+v", board[1])
	}
}

func TestNotifications(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "ivy")

	n := &models.Notification{ID: "n1", UserID: "ivy", Type: models.NotificationAchievement, Title: "Perfect Score!", Message: "well done", Data: map[string]string{"flower_title": "Lily Master"}, CreatedAt: time.Now().UTC()}
	if err := s.CreateNotification(ctx, n); err != nil {
		t.Fatalf("create notification: %v", err)
	}

	unread, err := s.ListNotifications(ctx, "ivy", true)
	if err != nil || len(unread) != 1 {
		t.Fatalf("expected one unread notification, got %d (%v)", len(unread), err)
	}
	if unread[0].Data["flower_title"] != "Lily Master" {
		t.Errorf("data not round-tripped: %v", unread[0].Data)
	}

	if err := s.MarkNotificationRead(ctx, "ivy", "n1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := s.MarkNotificationRead(ctx, "someone-else", "n1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign notification, got %v", err)
	}

	unread, _ = s.ListNotifications(ctx, "ivy", true)
	if len(unread) != 0 {
		t.Errorf("expected no unread notifications, got %d", len(unread))
	}
	all, _ := s.ListNotifications(ctx, "ivy", false)
	if len(all) != 1 || !all[0].IsRead {
		t.Errorf("expected one read notification, got %+v", all)
	}
}

func TestConcurrentWritesAreSerialized(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "jay")

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.CreatePlantAnalysis(ctx, &models.PlantAnalysis{
				ID:               fmt.Sprintf("c%02d", i),
				UserID:           "jay",
				ImageRef:         "img",
				DehydrationLevel: models.WellHydrated,
				CreatedAt:        time.Now().UTC(),
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent write failed: %v", err)
		}
	}
	list, err := s.ListPlantAnalyses(ctx, "jay")
	if err != nil || len(list) != 20 {
		t.Fatalf("expected 20 analyses, got %d (%v)", len(list), err)
	}
}

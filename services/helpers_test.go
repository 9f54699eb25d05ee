package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Bekzhanizb/GreenVerseBackend/config"
	"github.com/Bekzhanizb/GreenVerseBackend/db"
	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"github.com/Bekzhanizb/GreenVerseBackend/store"
	"go.uber.org/zap"
)

// stepClock returns start, start+step, start+2*step, ...
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newStepClock(start time.Time, step time.Duration) *stepClock {
	return &stepClock{now: start, step: step}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	conn, err := db.Connect(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "services.db"),
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
	return store.New(conn)
}

func seedUser(t *testing.T, s *store.Store, id string) *models.User {
	t.Helper()
	u := &models.User{
		ID:           id,
		Email:        id + "@example.com",
		Username:     id,
		FirstName:    "Green",
		LastName:     "Thumb",
		PasswordHash: "hash",
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
	return u
}

type testEnv struct {
	store      *store.Store
	clock      *stepClock
	rnd        *Random
	dispatcher *NotificationDispatcher
	analyzer   *AnalyzerService
	minter     *AchievementService
	quiz       *QuizService
	history    *HistoryService
	users      *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s := newTestStore(t)
	clock := newStepClock(fixedNow, time.Second)
	rnd := NewRandom(42)
	logger := zap.NewNop()
	dispatcher := NewNotificationDispatcher(s, clock, logger, 2, 16)
	t.Cleanup(dispatcher.Close)

	minter := NewAchievementService(s, clock, rnd, dispatcher, logger)
	return &testEnv{
		store:      s,
		clock:      clock,
		rnd:        rnd,
		dispatcher: dispatcher,
		analyzer:   NewAnalyzerService(s, clock, rnd, dispatcher, logger),
		minter:     minter,
		quiz:       NewQuizService(s, minter, clock, rnd, logger),
		history:    NewHistoryService(s),
		users:      NewUserService(s, clock, logger),
	}
}

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"go.uber.org/zap"
)

// answerAll answers every question, getting the first `correct` of them right.
func answerAll(t *testing.T, q *QuizService, userID, sessionID string, correct int) {
	t.Helper()
	q.mu.Lock()
	sess := q.sessions[sessionID]
	q.mu.Unlock()

	for i, question := range sess.questions {
		choice := question.Correct
		if i >= correct {
			choice = (question.Correct + 1) % len(question.Options)
		}
		if _, err := q.Answer(userID, sessionID, i, choice); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}
}

func TestQuestionBanks(t *testing.T) {
	for _, level := range models.QuizLevels {
		bank := QuestionBank(level)
		if len(bank) < QuestionsPerQuiz {
			t.Errorf("%s bank has %d questions", level, len(bank))
		}
		for _, q := range bank {
			if len(q.Options) < 2 || q.Correct < 0 || q.Correct >= len(q.Options) {
				t.Errorf("%s: malformed question %q", level, q.Prompt)
			}
		}
	}
}

func TestStartDrawsDistinctQuestions(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env.store, "u1")

	view, err := env.quiz.Start(context.Background(), "u1", models.LevelHardest)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.TotalQuestions != QuestionsPerQuiz || len(view.Questions) != QuestionsPerQuiz || view.State != SessionInProgress {
		t.Fatalf("unexpected session %+v", view)
	}
	seen := map[string]bool{}
	for _, q := range view.Questions {
		if seen[q.Prompt] {
			t.Fatalf("question %q drawn twice", q.Prompt)
		}
		seen[q.Prompt] = true
	}
}

func TestStartRejectsUnknownLevelAndUser(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env.store, "u1")

	if _, err := env.quiz.Start(context.Background(), "u1", "simple"); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := env.quiz.Start(context.Background(), "ghost", models.LevelEasy); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPerfectQuizAwardsOneAchievement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedUser(t, env.store, "u1")

	view, err := env.quiz.Start(ctx, "u1", models.LevelEasy)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	answerAll(t, env.quiz, "u1", view.SessionID, QuestionsPerQuiz)

	result, err := env.quiz.Submit(ctx, "u1", view.SessionID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 10 || result.TotalQuestions != 10 || result.Percentage != 100 {
		t.Errorf("unexpected result %+v", result)
	}
	if result.AwardedAchievement == nil || result.AwardedAchievement.Level != models.LevelEasy {
		t.Fatalf("expected an easy achievement, got %+v", result.AwardedAchievement)
	}
	if result.Elapsed <= 0 {
		t.Errorf("expected positive elapsed time, got %v", result.Elapsed)
	}

	list, _ := env.history.Achievements(ctx, "u1")
	if len(list) != 1 || list[0].Level != models.LevelEasy || list[0].QuizAttemptID != result.AttemptID {
		t.Fatalf("expected exactly one easy achievement, got %+v", list)
	}
}

func TestImperfectQuizAwardsNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedUser(t, env.store, "u1")

	view, _ := env.quiz.Start(ctx, "u1", models.LevelHard)
	answerAll(t, env.quiz, "u1", view.SessionID, 9)

	result, err := env.quiz.Submit(ctx, "u1", view.SessionID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 9 || result.AwardedAchievement != nil {
		t.Fatalf("unexpected result %+v", result)
	}
	if list, _ := env.history.Achievements(ctx, "u1"); len(list) != 0 {
		t.Fatalf("expected no achievements, got %d", len(list))
	}

	stats, _ := env.history.QuizStats(ctx, "u1")
	if hard := stats[models.LevelHard]; hard.Attempts != 1 || hard.BestScore == nil || *hard.BestScore != 9 {
		t.Errorf("unexpected hard stats %+v", hard)
	}
	if easy := stats[models.LevelEasy]; easy.Attempts != 0 || easy.BestScore != nil {
		t.Errorf("unexpected easy stats %+v", easy)
	}
}

func TestSubmitBeforeCompletionIsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedUser(t, env.store, "u1")

	view, _ := env.quiz.Start(ctx, "u1", models.LevelEasy)
	for i := 0; i < 5; i++ {
		if _, err := env.quiz.Answer("u1", view.SessionID, i, 0); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
	if _, err := env.quiz.Submit(ctx, "u1", view.SessionID); !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	stats, _ := env.history.QuizStats(ctx, "u1")
	if stats[models.LevelEasy].Attempts != 0 {
		t.Fatal("an incomplete session must not be persisted")
	}
}

func TestAnswerStateMachine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedUser(t, env.store, "u1")
	seedUser(t, env.store, "u2")

	view, _ := env.quiz.Start(ctx, "u1", models.LevelEasy)
	id := view.SessionID

	if _, err := env.quiz.Answer("u1", id, QuestionsPerQuiz, 0); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("question out of range: expected ErrNotFound, got %v", err)
	}
	if _, err := env.quiz.Answer("u1", id, 0, 9); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("option out of range: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := env.quiz.Answer("u2", id, 0, 0); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("foreign session: expected ErrNotFound, got %v", err)
	}

	v, _ := env.quiz.Answer("u1", id, 0, 1)
	v, _ = env.quiz.Answer("u1", id, 0, 2)
	if v.Answered != 1 || v.State != SessionInProgress {
		t.Errorf("re-answering must not count twice: %+v", v)
	}

	answerAll(t, env.quiz, "u1", id, 0)
	v, _ = env.quiz.Session("u1", id)
	if v.State != SessionAwaitingSubmit || v.Answered != QuestionsPerQuiz {
		t.Fatalf("expected awaiting submit, got %+v", v)
	}

	if _, err := env.quiz.Submit(ctx, "u1", id); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.quiz.Answer("u1", id, 0, 0); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("answer after submit: expected ErrInvalidState, got %v", err)
	}
	if _, err := env.quiz.Submit(ctx, "u1", id); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("second submit: expected ErrInvalidState, got %v", err)
	}
}

func TestNewSessionEvictsPrevious(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedUser(t, env.store, "u1")

	old, _ := env.quiz.Start(ctx, "u1", models.LevelEasy)
	answerAll(t, env.quiz, "u1", old.SessionID, QuestionsPerQuiz)

	if _, err := env.quiz.Start(ctx, "u1", models.LevelHard); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := env.quiz.Submit(ctx, "u1", old.SessionID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected evicted session to be gone, got %v", err)
	}
	stats, _ := env.history.QuizStats(ctx, "u1")
	if stats[models.LevelEasy].Attempts != 0 {
		t.Fatal("evicted responses must not be persisted")
	}
}

func TestSubmitBlockedDuringEvictionIsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedUser(t, env.store, "u1")

	old, _ := env.quiz.Start(ctx, "u1", models.LevelEasy)
	answerAll(t, env.quiz, "u1", old.SessionID, QuestionsPerQuiz)

	env.quiz.mu.Lock()
	sess := env.quiz.sessions[old.SessionID]
	env.quiz.mu.Unlock()

	sess.mu.Lock()
	errc := make(chan error, 1)
	go func() {
		_, err := env.quiz.Submit(ctx, "u1", old.SessionID)
		errc <- err
	}()
	// let Submit find the session and wait on its lock
	time.Sleep(50 * time.Millisecond)
	_, startErr := env.quiz.Start(ctx, "u1", models.LevelHard)
	sess.mu.Unlock()
	if startErr != nil {
		t.Fatalf("start: %v", startErr)
	}

	if err := <-errc; !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for the evicted session, got %v", err)
	}
	stats, _ := env.history.QuizStats(ctx, "u1")
	if stats[models.LevelEasy].Attempts != 0 {
		t.Fatal("evicted responses must not be persisted")
	}
	if list, _ := env.history.Achievements(ctx, "u1"); len(list) != 0 {
		t.Fatalf("evicted session must not award, got %d", len(list))
	}
}

func TestSubmittedSessionIsReleased(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedUser(t, env.store, "u1")
	seedUser(t, env.store, "u2")

	view, _ := env.quiz.Start(ctx, "u1", models.LevelEasy)
	answerAll(t, env.quiz, "u1", view.SessionID, 3)
	if _, err := env.quiz.Submit(ctx, "u1", view.SessionID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	env.quiz.mu.Lock()
	_, kept := env.quiz.sessions[view.SessionID]
	_, active := env.quiz.byUser["u1"]
	env.quiz.mu.Unlock()
	if kept || active {
		t.Fatal("submitted session must leave the registry")
	}

	if _, err := env.quiz.Session("u1", view.SessionID); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("view after submit: expected ErrInvalidState, got %v", err)
	}
	if _, err := env.quiz.Submit(ctx, "u2", view.SessionID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("foreign submit: expected ErrNotFound, got %v", err)
	}

	if _, err := env.quiz.Start(ctx, "u1", models.LevelHard); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := env.quiz.Submit(ctx, "u1", view.SessionID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("submit after a new start: expected ErrNotFound, got %v", err)
	}
}

type flakyMinter struct {
	next AchievementMinter
	fail atomic.Bool
}

func (f *flakyMinter) Mint(ctx context.Context, userID string, level models.QuizLevel, attemptID string) (*models.Achievement, error) {
	if f.fail.Load() {
		return nil, models.ErrStorageUnavailable
	}
	return f.next.Mint(ctx, userID, level, attemptID)
}

func TestMintFailureKeepsAttemptAndRepairs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedUser(t, env.store, "u1")

	minter := &flakyMinter{next: env.minter}
	minter.fail.Store(true)
	quiz := NewQuizService(env.store, minter, env.clock, env.rnd, zap.NewNop())

	for i := 0; i < 2; i++ {
		view, _ := quiz.Start(ctx, "u1", models.LevelHardest)
		answerAll(t, quiz, "u1", view.SessionID, QuestionsPerQuiz)
		result, err := quiz.Submit(ctx, "u1", view.SessionID)
		if !errors.Is(err, models.ErrStorageUnavailable) {
			t.Fatalf("expected mint failure to surface, got %v", err)
		}
		if result == nil || result.Score != 10 || result.AwardedAchievement != nil {
			t.Fatalf("expected result without award, got %+v", result)
		}
	}

	stats, _ := env.history.QuizStats(ctx, "u1")
	if stats[models.LevelHardest].Attempts != 2 {
		t.Fatalf("attempts must survive a failed mint, got %+v", stats[models.LevelHardest])
	}

	minter.fail.Store(false)
	repaired, err := quiz.RepairAchievements(ctx, "u1")
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if len(repaired) != 2 {
		t.Fatalf("expected 2 repaired achievements, got %d", len(repaired))
	}

	again, err := quiz.RepairAchievements(ctx, "u1")
	if err != nil || len(again) != 0 {
		t.Fatalf("second repair must be a no-op, got %d (%v)", len(again), err)
	}
	if list, _ := env.history.Achievements(ctx, "u1"); len(list) != 2 {
		t.Fatalf("expected 2 achievements, got %d", len(list))
	}
}

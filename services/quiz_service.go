package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"github.com/Bekzhanizb/GreenVerseBackend/store"
	"github.com/Bekzhanizb/GreenVerseBackend/utils"
	"go.uber.org/zap"
)

const QuestionsPerQuiz = 10

type SessionState string

const (
	SessionInProgress     SessionState = "in_progress"
	SessionAwaitingSubmit SessionState = "awaiting_submit"
	SessionCompleted      SessionState = "completed"
)

type quizSession struct {
	mu sync.Mutex

	id        string
	userID    string
	level     models.QuizLevel
	questions []Question
	responses []int // -1 while unanswered
	answered  int
	state     SessionState
	startedAt time.Time
}

type SessionQuestion struct {
	Index   int      `json:"index"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// QuizSessionView is what a player sees of a session: no correct answers.
type QuizSessionView struct {
	SessionID      string            `json:"session_id"`
	Level          models.QuizLevel  `json:"level"`
	State          SessionState      `json:"state"`
	Answered       int               `json:"answered"`
	TotalQuestions int               `json:"total_questions"`
	Questions      []SessionQuestion `json:"questions"`
}

type QuizResult struct {
	AttemptID          string              `json:"attempt_id"`
	Level              models.QuizLevel    `json:"level"`
	Score              int                 `json:"score"`
	TotalQuestions     int                 `json:"total_questions"`
	Percentage         float64             `json:"percentage"`
	Elapsed            time.Duration       `json:"-"`
	TimeTakenSeconds   float64             `json:"time_taken"`
	AwardedAchievement *models.Achievement `json:"awarded_achievement,omitempty"`
}

// QuizService runs quiz sessions in memory. Each user has at most one
// session; starting another evicts the previous one. Nothing is persisted
// until Submit, which also drops the session and keeps only its id so a
// repeated submit is still recognised.
type QuizService struct {
	store  *store.Store
	minter AchievementMinter
	clock  Clock
	rnd    *Random
	logger *zap.Logger

	// Lock order: quizSession.mu before mu.
	mu        sync.Mutex
	sessions  map[string]*quizSession
	byUser    map[string]string
	submitted map[string]string // user id -> last submitted session id
}

func NewQuizService(store *store.Store, minter AchievementMinter, clock Clock, rnd *Random, logger *zap.Logger) *QuizService {
	return &QuizService{
		store:    store,
		minter:   minter,
		clock:    clock,
		rnd:      rnd,
		logger:   logger,
		sessions:  make(map[string]*quizSession),
		byUser:    make(map[string]string),
		submitted: make(map[string]string),
	}
}

func (s *QuizService) Start(ctx context.Context, userID string, level models.QuizLevel) (*QuizSessionView, error) {
	if _, err := models.ParseQuizLevel(string(level)); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}

	bank := QuestionBank(level)
	order := s.rnd.Perm(len(bank))
	if len(order) > QuestionsPerQuiz {
		order = order[:QuestionsPerQuiz]
	}
	questions := make([]Question, len(order))
	responses := make([]int, len(order))
	for i, idx := range order {
		questions[i] = bank[idx]
		responses[i] = -1
	}

	sess := &quizSession{
		id:        newID(),
		userID:    userID,
		level:     level,
		questions: questions,
		responses: responses,
		state:     SessionInProgress,
		startedAt: s.clock.Now(),
	}

	s.mu.Lock()
	if prev, ok := s.byUser[userID]; ok {
		delete(s.sessions, prev)
		s.logger.Info("quiz_session_evicted",
			zap.String("user_id", userID),
			zap.String("session_id", prev),
		)
	}
	delete(s.submitted, userID)
	s.sessions[sess.id] = sess
	s.byUser[userID] = sess.id
	s.mu.Unlock()

	s.logger.Info("quiz_started",
		zap.String("user_id", userID),
		zap.String("session_id", sess.id),
		zap.String("level", string(level)),
	)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

// Session returns the current view of a session owned by userID.
func (s *QuizService) Session(userID, sessionID string) (*QuizSessionView, error) {
	sess, err := s.acquire(userID, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()
	return sess.view(), nil
}

// Answer records the chosen option for one question. Answering the same
// question again replaces the earlier choice.
func (s *QuizService) Answer(userID, sessionID string, questionIndex, optionIndex int) (*QuizSessionView, error) {
	sess, err := s.acquire(userID, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	if questionIndex < 0 || questionIndex >= len(sess.questions) {
		return nil, fmt.Errorf("%w: question %d", models.ErrNotFound, questionIndex)
	}
	if optionIndex < 0 || optionIndex >= len(sess.questions[questionIndex].Options) {
		return nil, fmt.Errorf("%w: option %d out of range", models.ErrInvalidArgument, optionIndex)
	}

	if sess.responses[questionIndex] < 0 {
		sess.answered++
	}
	sess.responses[questionIndex] = optionIndex
	if sess.answered == len(sess.questions) {
		sess.state = SessionAwaitingSubmit
	}
	return sess.view(), nil
}

// Submit grades a fully answered session and records the attempt. A perfect
// score mints an achievement. If minting fails the attempt is kept, the
// result is still returned, and the error reports the missing award.
func (s *QuizService) Submit(ctx context.Context, userID, sessionID string) (*QuizResult, error) {
	sess, err := s.acquire(userID, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	if sess.state != SessionAwaitingSubmit {
		return nil, fmt.Errorf("%w: %d of %d questions answered", models.ErrInvalidState, sess.answered, len(sess.questions))
	}

	score := 0
	for i, q := range sess.questions {
		if sess.responses[i] == q.Correct {
			score++
		}
	}
	now := s.clock.Now()
	attempt := &models.QuizAttempt{
		ID:             newID(),
		UserID:         userID,
		Level:          sess.level,
		Score:          score,
		TotalQuestions: len(sess.questions),
		CompletedAt:    now,
	}
	if err := s.store.CreateQuizAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("store quiz attempt: %w", err)
	}

	elapsed := now.Sub(sess.startedAt)
	result := &QuizResult{
		AttemptID:        attempt.ID,
		Level:            sess.level,
		Score:            score,
		TotalQuestions:   attempt.TotalQuestions,
		Percentage:       float64(score) * 100 / float64(attempt.TotalQuestions),
		Elapsed:          elapsed,
		TimeTakenSeconds: elapsed.Seconds(),
	}
	sess.state = SessionCompleted

	s.mu.Lock()
	delete(s.sessions, sessionID)
	if s.byUser[userID] == sessionID {
		delete(s.byUser, userID)
	}
	s.submitted[userID] = sessionID
	s.mu.Unlock()

	perfect := attempt.Perfect()
	utils.QuizAttemptCount.WithLabelValues(string(sess.level), strconv.FormatBool(perfect)).Inc()
	s.logger.Info("quiz_submitted",
		zap.String("user_id", userID),
		zap.String("session_id", sessionID),
		zap.String("attempt_id", attempt.ID),
		zap.Int("score", score),
		zap.Int("total", attempt.TotalQuestions),
		zap.Duration("elapsed", elapsed),
	)

	if !perfect {
		return result, nil
	}
	achievement, err := s.minter.Mint(ctx, userID, sess.level, attempt.ID)
	if err != nil {
		s.logger.Error("achievement_mint_failed",
			zap.String("user_id", userID),
			zap.String("attempt_id", attempt.ID),
			zap.Error(err),
		)
		return result, fmt.Errorf("mint achievement for attempt %s: %w", attempt.ID, err)
	}
	result.AwardedAchievement = achievement
	return result, nil
}

// RepairAchievements mints the achievements that perfect attempts should
// have produced but did not.
func (s *QuizService) RepairAchievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	attempts, err := s.store.ListUnawardedPerfectAttempts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list unawarded attempts: %w", err)
	}

	minted := []models.Achievement{}
	for _, attempt := range attempts {
		achievement, err := s.minter.Mint(ctx, userID, attempt.Level, attempt.ID)
		if errors.Is(err, models.ErrConflict) {
			continue
		}
		if err != nil {
			return minted, fmt.Errorf("repair attempt %s: %w", attempt.ID, err)
		}
		minted = append(minted, *achievement)
	}

	if len(minted) > 0 {
		s.logger.Info("achievements_repaired",
			zap.String("user_id", userID),
			zap.Int("count", len(minted)),
		)
	}
	return minted, nil
}

// acquire returns the caller's session with its lock held. The registry is
// checked again once the lock is taken, so a session evicted or submitted in
// between is never handed out. Sessions owned by other users are reported as
// ErrNotFound.
func (s *QuizService) acquire(userID, sessionID string) (*quizSession, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	done := s.submitted[userID] == sessionID
	s.mu.Unlock()

	if !ok || sess.userID != userID {
		if done {
			return nil, fmt.Errorf("%w: session %s is already submitted", models.ErrInvalidState, sessionID)
		}
		return nil, fmt.Errorf("%w: quiz session %s", models.ErrNotFound, sessionID)
	}

	sess.mu.Lock()
	s.mu.Lock()
	current := s.sessions[sessionID] == sess
	s.mu.Unlock()
	if current {
		return sess, nil
	}

	completed := sess.state == SessionCompleted
	sess.mu.Unlock()
	if completed {
		return nil, fmt.Errorf("%w: session %s is already submitted", models.ErrInvalidState, sessionID)
	}
	return nil, fmt.Errorf("%w: quiz session %s", models.ErrNotFound, sessionID)
}

func (sess *quizSession) view() *QuizSessionView {
	questions := make([]SessionQuestion, len(sess.questions))
	for i, q := range sess.questions {
		questions[i] = SessionQuestion{Index: i, Prompt: q.Prompt, Options: slices.Clone(q.Options)}
	}
	return &QuizSessionView{
		SessionID:      sess.id,
		Level:          sess.level,
		State:          sess.state,
		Answered:       sess.answered,
		TotalQuestions: len(sess.questions),
		Questions:      questions,
	}
}

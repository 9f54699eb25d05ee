package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"github.com/Bekzhanizb/GreenVerseBackend/utils"
	"go.uber.org/zap"
)

type Flower struct {
	Title       string `json:"title"`
	SearchTerms string `json:"search_terms"`
}

func (f Flower) ImageRef() string {
	return "https://source.unsplash.com/800x600/?" + strings.ReplaceAll(f.SearchTerms, " ", "+")
}

var FlowerCatalog = []Flower{
	{Title: "Rose Guardian", SearchTerms: "red rose"},
	{Title: "Sunflower Champion", SearchTerms: "sunflower"},
	{Title: "Lily Master", SearchTerms: "white lily"},
	{Title: "Orchid Specialist", SearchTerms: "purple orchid"},
	{Title: "Tulip Expert", SearchTerms: "colorful tulips"},
	{Title: "Daisy Keeper", SearchTerms: "white daisy"},
	{Title: "Lavender Sage", SearchTerms: "lavender field"},
	{Title: "Cherry Blossom Sensei", SearchTerms: "cherry blossom"},
	{Title: "Iris Virtuoso", SearchTerms: "blue iris"},
	{Title: "Peony Prodigy", SearchTerms: "pink peony"},
	{Title: "Hibiscus Hero", SearchTerms: "red hibiscus"},
	{Title: "Jasmine Genius", SearchTerms: "white jasmine"},
	{Title: "Magnolia Maestro", SearchTerms: "magnolia flower"},
	{Title: "Daffodil Devotee", SearchTerms: "yellow daffodil"},
	{Title: "Carnation Connoisseur", SearchTerms: "pink carnation"},
}

type AchievementStore interface {
	CreateAchievement(ctx context.Context, achievement *models.Achievement) error
}

// AchievementMinter awards a flower title for a perfect quiz attempt.
type AchievementMinter interface {
	Mint(ctx context.Context, userID string, level models.QuizLevel, attemptID string) (*models.Achievement, error)
}

type AchievementService struct {
	store    AchievementStore
	clock    Clock
	rnd      *Random
	notifier *NotificationDispatcher
	logger   *zap.Logger
}

func NewAchievementService(store AchievementStore, clock Clock, rnd *Random, notifier *NotificationDispatcher, logger *zap.Logger) *AchievementService {
	return &AchievementService{store: store, clock: clock, rnd: rnd, notifier: notifier, logger: logger}
}

func (s *AchievementService) Mint(ctx context.Context, userID string, level models.QuizLevel, attemptID string) (*models.Achievement, error) {
	if _, err := models.ParseQuizLevel(string(level)); err != nil {
		return nil, err
	}

	flower := FlowerCatalog[s.rnd.IntN(len(FlowerCatalog))]
	achievement := &models.Achievement{
		ID:             newID(),
		UserID:         userID,
		QuizAttemptID:  attemptID,
		FlowerTitle:    flower.Title,
		FlowerImageRef: flower.ImageRef(),
		Level:          level,
		EarnedAt:       s.clock.Now(),
	}
	if err := s.store.CreateAchievement(ctx, achievement); err != nil {
		return nil, fmt.Errorf("store achievement: %w", err)
	}

	utils.AchievementCount.WithLabelValues(string(level)).Inc()
	s.logger.Info("achievement_minted",
		zap.String("user_id", userID),
		zap.String("attempt_id", attemptID),
		zap.String("title", flower.Title),
		zap.String("level", string(level)),
	)

	s.notifier.Notify(NotificationJob{
		UserID:  userID,
		Type:    models.NotificationAchievement,
		Title:   "New achievement: " + flower.Title,
		Message: fmt.Sprintf("Perfect score on the %s quiz earned you the %s title.", level, flower.Title),
		Data: map[string]string{
			"achievement_id": achievement.ID,
			"level":          string(level),
			"image_ref":      achievement.FlowerImageRef,
		},
	})

	return achievement, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"github.com/Bekzhanizb/GreenVerseBackend/store"
)

// HistoryService serves read-only views of a user's records.
type HistoryService struct {
	store *store.Store
}

func NewHistoryService(store *store.Store) *HistoryService {
	return &HistoryService{store: store}
}

// History returns the user's plant reports, newest first.
func (s *HistoryService) History(ctx context.Context, userID string) ([]models.PlantAnalysis, error) {
	analyses, err := s.store.ListPlantAnalyses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	return analyses, nil
}

func (s *HistoryService) Report(ctx context.Context, userID, id string) (*models.PlantAnalysis, error) {
	analysis, err := s.store.GetPlantAnalysis(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("load analysis %s: %w", id, err)
	}
	return analysis, nil
}

// Achievements returns the user's awards, newest first.
func (s *HistoryService) Achievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	achievements, err := s.store.ListAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return achievements, nil
}

func (s *HistoryService) QuizStats(ctx context.Context, userID string) (map[models.QuizLevel]models.QuizLevelStats, error) {
	stats, err := s.store.AggregateQuizStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate quiz stats: %w", err)
	}
	return stats, nil
}

func (s *HistoryService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	entries, err := s.store.QuizLeaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	return entries, nil
}

func (s *HistoryService) Notifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	notifications, err := s.store.ListNotifications(ctx, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

func (s *HistoryService) MarkNotificationRead(ctx context.Context, userID, id string) error {
	if err := s.store.MarkNotificationRead(ctx, userID, id); err != nil {
		return fmt.Errorf("mark notification %s: %w", id, err)
	}
	return nil
}

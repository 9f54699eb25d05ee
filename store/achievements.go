package store

import (
	"context"
	"fmt"

	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"gorm.io/gorm"
)

// CreateAchievement records a minted achievement. A second achievement for
// the same quiz attempt is rejected with ErrConflict.
func (s *Store) CreateAchievement(ctx context.Context, achievement *models.Achievement) error {
	return s.write(ctx, func(tx *gorm.DB) error {
		if achievement.QuizAttemptID != "" {
			var count int64
			if err := tx.Model(&models.Achievement{}).
				Where("quiz_attempt_id = ?", achievement.QuizAttemptID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("%w: attempt %s already awarded", models.ErrConflict, achievement.QuizAttemptID)
			}
		}
		return tx.Create(achievement).Error
	})
}

func (s *Store) ListAchievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	achievements := []models.Achievement{}
	err := s.read(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Order("id DESC").
		Find(&achievements).Error
	if err != nil {
		return nil, mapError(err)
	}
	return achievements, nil
}

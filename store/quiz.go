package store

import (
	"context"
	"fmt"

	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"gorm.io/gorm"
)

func (s *Store) CreateQuizAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	if _, err := models.ParseQuizLevel(string(attempt.Level)); err != nil {
		return err
	}
	if attempt.TotalQuestions <= 0 || attempt.Score < 0 || attempt.Score > attempt.TotalQuestions {
		return fmt.Errorf("%w: score %d out of %d", models.ErrInvalidArgument, attempt.Score, attempt.TotalQuestions)
	}
	return s.write(ctx, func(tx *gorm.DB) error {
		return tx.Create(attempt).Error
	})
}

type levelAggregate struct {
	Level     models.QuizLevel
	Attempts  int
	AvgScore  float64
	BestScore int
}

// AggregateQuizStats returns one entry per quiz level, including levels the
// user has never attempted.
func (s *Store) AggregateQuizStats(ctx context.Context, userID string) (map[models.QuizLevel]models.QuizLevelStats, error) {
	var rows []levelAggregate
	err := s.read(ctx).
		Model(&models.QuizAttempt{}).
		Select("level, COUNT(*) AS attempts, AVG(score) AS avg_score, MAX(score) AS best_score").
		Where("user_id = ?", userID).
		Group("level").
		Scan(&rows).Error
	if err != nil {
		return nil, mapError(err)
	}

	stats := make(map[models.QuizLevel]models.QuizLevelStats, len(models.QuizLevels))
	for _, level := range models.QuizLevels {
		stats[level] = models.QuizLevelStats{}
	}
	for _, row := range rows {
		if row.Attempts == 0 {
			continue
		}
		best := row.BestScore
		stats[row.Level] = models.QuizLevelStats{
			Attempts:  row.Attempts,
			AvgScore:  row.AvgScore,
			BestScore: &best,
		}
	}
	return stats, nil
}

// ListUnawardedPerfectAttempts finds perfect attempts that never got an
// achievement row, oldest first.
func (s *Store) ListUnawardedPerfectAttempts(ctx context.Context, userID string) ([]models.QuizAttempt, error) {
	attempts := []models.QuizAttempt{}
	err := s.read(ctx).
		Model(&models.QuizAttempt{}).
		Select("quiz_attempts.*").
		Joins("LEFT JOIN achievements ON achievements.quiz_attempt_id = quiz_attempts.id").
		Where("quiz_attempts.user_id = ?", userID).
		Where("quiz_attempts.score = quiz_attempts.total_questions").
		Where("achievements.id IS NULL").
		Order("quiz_attempts.completed_at ASC").
		Find(&attempts).Error
	if err != nil {
		return nil, mapError(err)
	}
	return attempts, nil
}

func (s *Store) QuizLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	entries := []models.LeaderboardEntry{}
	err := s.read(ctx).
		Table("quiz_attempts").
		Select(`users.username, users.first_name, users.last_name,
			quiz_attempts.level, quiz_attempts.score, quiz_attempts.total_questions,
			(quiz_attempts.score * 100.0 / quiz_attempts.total_questions) AS percentage,
			quiz_attempts.completed_at`).
		Joins("JOIN users ON users.id = quiz_attempts.user_id").
		Order("percentage DESC").
		Order("quiz_attempts.completed_at DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, mapError(err)
	}
	return entries, nil
}

package store

import (
	"context"
	"fmt"

	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"gorm.io/gorm"
)

func (s *Store) CreatePlantAnalysis(ctx context.Context, analysis *models.PlantAnalysis) error {
	if analysis.ID == "" || analysis.UserID == "" {
		return fmt.Errorf("%w: analysis id and user id are required", models.ErrInvalidArgument)
	}
	return s.write(ctx, func(tx *gorm.DB) error {
		return tx.Create(analysis).Error
	})
}

// ListPlantAnalyses returns the user's reports, newest first.
func (s *Store) ListPlantAnalyses(ctx context.Context, userID string) ([]models.PlantAnalysis, error) {
	analyses := []models.PlantAnalysis{}
	err := s.read(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&analyses).Error
	if err != nil {
		return nil, mapError(err)
	}
	return analyses, nil
}

// GetPlantAnalysis returns ErrNotFound when the report does not exist or is
// owned by another user.
func (s *Store) GetPlantAnalysis(ctx context.Context, userID, id string) (*models.PlantAnalysis, error) {
	var analysis models.PlantAnalysis
	err := s.read(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&analysis).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &analysis, nil
}

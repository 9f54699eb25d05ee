package store

import (
	"context"

	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"gorm.io/gorm"
)

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	return s.write(ctx, func(tx *gorm.DB) error {
		return tx.Create(n).Error
	})
}

func (s *Store) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	notifications := []models.Notification{}
	query := s.read(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if err := query.Order("created_at DESC").Order("id DESC").Find(&notifications).Error; err != nil {
		return nil, mapError(err)
	}
	return notifications, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, userID, id string) error {
	return s.write(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("is_read", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}

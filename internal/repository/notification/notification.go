package notificationrepo

import (
	"context"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/model"
	"github.com/creditos/creditos-backend/internal/repository"

	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

// Record implements repository.NotificationRepository.
func (r *notificationRepository) Record(ctx context.Context, notification *domain.Notification) error {
	data := model.NotificationFromEntity(notification)
	if err := r.db.WithContext(ctx).Create(&data).Error; err != nil {
		return err
	}

	notification.ID = data.ID
	notification.CreatedAt = data.CreatedAt
	return nil
}

// FindByClient implements repository.NotificationRepository, newest first.
func (r *notificationRepository) FindByClient(ctx context.Context, clienteID uint64) ([]domain.Notification, error) {
	var notifications []model.Notification
	err := r.db.WithContext(ctx).
		Where("cliente_id = ?", clienteID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	return model.NotificationsToEntity(notifications), nil
}

func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/codereview-api/internal/domain/entity"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
)

// NotificationRepo реализует repository.NotificationRepository
type NotificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo создает новый репозиторий уведомлений
func NewNotificationRepo(db *gorm.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create создает новое уведомление
func (r *NotificationRepo) Create(notification *entity.Notification) error {
	notification.IsGlobal = notification.UserID == nil
	return r.db.Create(notification).Error
}

// ListForUser возвращает персональные уведомления пользователя
// вместе с глобальными (user_id IS NULL), новые первыми
func (r *NotificationRepo) ListForUser(userID uint, limit, offset int) ([]entity.Notification, error) {
	var notifications []entity.Notification
	err := r.db.Where("user_id = ? OR user_id IS NULL", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, err
}

// CountUnread возвращает количество непрочитанных персональных уведомлений
func (r *NotificationRepo) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead помечает уведомление прочитанным, только если оно принадлежит пользователю
func (r *NotificationRepo) MarkRead(notificationID, userID uint) error {
	result := r.db.Model(&entity.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkAllRead помечает прочитанными все персональные уведомления пользователя
func (r *NotificationRepo) MarkAllRead(userID uint) error {
	return r.db.Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).
		Error
}

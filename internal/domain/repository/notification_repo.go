package repository

import (
	"github.com/yourusername/codereview-api/internal/domain/entity"
)

// NotificationRepository определяет методы для работы с уведомлениями
type NotificationRepository interface {
	Create(notification *entity.Notification) error

	// ListForUser возвращает персональные уведомления пользователя
	// вместе с глобальными (user_id IS NULL), новые первыми
	ListForUser(userID uint, limit, offset int) ([]entity.Notification, error)

	CountUnread(userID uint) (int64, error)

	// MarkRead помечает уведомление прочитанным, только если оно принадлежит пользователю
	MarkRead(notificationID, userID uint) error

	MarkAllRead(userID uint) error
}

package service

import (
	"fmt"
	"log"
	"strconv"

	"github.com/yourusername/codereview-api/internal/domain/entity"
	"github.com/yourusername/codereview-api/internal/domain/repository"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
	ws "github.com/yourusername/codereview-api/internal/websocket"
)

// NotificationService управляет уведомлениями и их доставкой через WebSocket
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	wsManager        *ws.Manager
}

// NewNotificationService создает новый сервис уведомлений.
// wsManager может быть nil: тогда уведомления только сохраняются в БД.
func NewNotificationService(notificationRepo repository.NotificationRepository, wsManager *ws.Manager) (*NotificationService, error) {
	if notificationRepo == nil {
		return nil, fmt.Errorf("NotificationRepository is required for NotificationService")
	}
	return &NotificationService{
		notificationRepo: notificationRepo,
		wsManager:        wsManager,
	}, nil
}

// NotifyUser создает персональное уведомление и пытается доставить его по WebSocket.
// Ошибка доставки не считается ошибкой операции: уведомление уже сохранено.
func (s *NotificationService) NotifyUser(userID uint, title, message, notifType string) (*entity.Notification, error) {
	notification := &entity.Notification{
		UserID:  &userID,
		Title:   title,
		Message: message,
		Type:    notifType,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return nil, err
	}

	if s.wsManager != nil {
		if err := s.wsManager.SendEventToUser(strconv.FormatUint(uint64(userID), 10), ws.EventNotificationNew, notification); err != nil {
			log.Printf("[NotificationService.NotifyUser] Не удалось доставить уведомление ID=%d пользователю ID=%d: %v", notification.ID, userID, err)
		}
	}
	return notification, nil
}

// BroadcastGlobal создает глобальное уведомление (user_id = NULL) и рассылает его всем подключенным клиентам
func (s *NotificationService) BroadcastGlobal(title, message, notifType string) (*entity.Notification, error) {
	notification := &entity.Notification{
		UserID:   nil,
		Title:    title,
		Message:  message,
		Type:     notifType,
		IsGlobal: true,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return nil, err
	}

	if s.wsManager != nil {
		if err := s.wsManager.BroadcastEvent(ws.EventNotificationNew, notification); err != nil {
			log.Printf("[NotificationService.BroadcastGlobal] Не удалось разослать уведомление ID=%d: %v", notification.ID, err)
		}
	}

	log.Printf("[NotificationService.BroadcastGlobal] Создано глобальное уведомление ID=%d title=%q", notification.ID, title)
	return notification, nil
}

// ListForUser возвращает ленту уведомлений пользователя (персональные + глобальные)
func (s *NotificationService) ListForUser(userID uint, limit, offset int) ([]entity.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.notificationRepo.ListForUser(userID, limit, offset)
}

// CountUnread возвращает число непрочитанных персональных уведомлений
func (s *NotificationService) CountUnread(userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

// MarkRead помечает уведомление прочитанным.
// Чужое или несуществующее уведомление дает ErrNotFound.
func (s *NotificationService) MarkRead(notificationID, userID uint) error {
	if notificationID == 0 {
		return fmt.Errorf("%w: notification id is required", apperrors.ErrValidation)
	}
	return s.notificationRepo.MarkRead(notificationID, userID)
}

// MarkAllRead помечает все персональные уведомления пользователя прочитанными
func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.notificationRepo.MarkAllRead(userID)
}

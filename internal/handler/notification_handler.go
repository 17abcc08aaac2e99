package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/codereview-api/internal/domain/entity"
	"github.com/yourusername/codereview-api/internal/handler/dto"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
	"github.com/yourusername/codereview-api/internal/service"
)

// NotificationHandler обрабатывает запросы ленты уведомлений
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler создает новый обработчик уведомлений
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications возвращает персональные и глобальные уведомления
// GET /api/notifications?page=1&per_page=20
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}

	notifications, err := h.notificationService.ListForUser(userID, perPage, (page-1)*perPage)
	if err != nil {
		h.handleNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": dto.NewListNotificationResponse(notifications)})
}

// UnreadCount возвращает число непрочитанных уведомлений
// GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	count, err := h.notificationService.CountUnread(userID)
	if err != nil {
		h.handleNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkRead помечает уведомление прочитанным
// PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	notificationID := c.MustGet("notificationID").(uint)

	if err := h.notificationService.MarkRead(notificationID, userID); err != nil {
		h.handleNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead помечает все уведомления пользователя прочитанными
// PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	if err := h.notificationService.MarkAllRead(userID); err != nil {
		h.handleNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// BroadcastRequest представляет запрос на глобальную рассылку
type BroadcastRequest struct {
	Title   string `json:"title" binding:"required,min=3,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// Broadcast создает глобальное уведомление (только администратор)
// POST /api/admin/notifications/broadcast
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := h.notificationService.BroadcastGlobal(req.Title, req.Message, entity.NotificationTypeInfo)
	if err != nil {
		h.handleNotificationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewNotificationResponse(notification))
}

// handleNotificationError обрабатывает ошибки сервиса уведомлений
func (h *NotificationHandler) handleNotificationError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in NotificationHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

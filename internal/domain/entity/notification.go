package entity

import (
	"time"
)

// Типы уведомлений
const (
	NotificationTypeInfo     = "info"
	NotificationTypeReview   = "review"
	NotificationTypeAppeal   = "appeal"
	NotificationTypeSolution = "solution"
)

// Notification представляет уведомление.
// UserID = NULL означает глобальное уведомление, видимое всем пользователям.
type Notification struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  *uint  `gorm:"index" json:"user_id,omitempty"`
	Title   string `gorm:"size:200;not null" json:"title"`
	Message string `gorm:"type:text;not null" json:"message"`
	Type    string `gorm:"size:20;not null;default:'info'" json:"type"`
	IsRead  bool   `gorm:"not null;default:false" json:"is_read"`

	// IsGlobal дублирует признак UserID = NULL для простых фильтров на клиенте
	IsGlobal bool `gorm:"not null;default:false" json:"is_global"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Notification) TableName() string {
	return "notifications"
}

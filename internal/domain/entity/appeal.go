package entity

import (
	"strings"
	"time"
)

// Статусы апелляции
const (
	AppealStatusPending  = "pending"
	AppealStatusApproved = "approved"
	AppealStatusRejected = "rejected"
)

// MinAppealReasonLen - минимальная длина причины апелляции после обрезки пробелов
const MinAppealReasonLen = 20

// Appeal представляет апелляцию автора решения на результат ревью.
// На пару (user, solution) допускается не больше одной апелляции:
// помимо проверки в сервисе это закреплено уникальным индексом.
// После разрешения запись неизменяема.
type Appeal struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	SolutionID uint   `gorm:"not null;uniqueIndex:idx_appeals_user_solution" json:"solution_id"`
	UserID     uint   `gorm:"not null;uniqueIndex:idx_appeals_user_solution" json:"user_id"`
	Reason     string `gorm:"type:text;not null" json:"reason"`
	Status     string `gorm:"size:10;not null;default:'pending';index" json:"status"` // pending, approved, rejected

	ResolvedBy        *uint      `gorm:"index" json:"resolved_by,omitempty"`
	ResolutionComment string     `gorm:"type:text;not null;default:''" json:"resolution_comment"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Solution *Solution `gorm:"foreignKey:SolutionID" json:"solution,omitempty"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (Appeal) TableName() string {
	return "appeals"
}

// IsResolved сообщает, разрешена ли апелляция
func (a *Appeal) IsResolved() bool {
	return a.Status == AppealStatusApproved || a.Status == AppealStatusRejected
}

// ValidAppealReason проверяет причину апелляции: после обрезки пробелов
// должно остаться не меньше MinAppealReasonLen символов.
func ValidAppealReason(reason string) bool {
	return len([]rune(strings.TrimSpace(reason))) >= MinAppealReasonLen
}

// ValidAppealDecision проверяет решение администратора по апелляции
func ValidAppealDecision(decision string) bool {
	return decision == AppealStatusApproved || decision == AppealStatusRejected
}

package entity

import (
	"time"
)

// Статусы решения
const (
	SolutionStatusPending  = "pending"
	SolutionStatusAccepted = "accepted"
	SolutionStatusRejected = "rejected"
)

// Solution представляет отправленное пользователем решение задачи.
// Переходы статуса: pending -> accepted, pending -> rejected,
// rejected -> (переотправка создает новое pending-решение).
// Только одно решение на пару (user, task) считается текущим.
type Solution struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	TaskID uint   `gorm:"not null;index" json:"task_id"`
	UserID uint   `gorm:"not null;index:idx_solutions_user_task" json:"user_id"`
	Code   string `gorm:"type:text;not null" json:"code"`
	Status string `gorm:"size:10;not null;default:'pending';index" json:"status"` // pending, accepted, rejected

	// IsCurrent: флаг текущего решения пары (user, task). Поддерживается репозиторием при переотправке.
	IsCurrent bool `gorm:"not null;default:true;index:idx_solutions_user_task" json:"is_current"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Task *Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (Solution) TableName() string {
	return "solutions"
}

// CanResubmit сообщает, может ли автор отправить новое решение по той же задаче
func (s *Solution) CanResubmit() bool {
	return s.Status == SolutionStatusRejected
}

// IsDecided сообщает, принято ли окончательное решение по статусу
func (s *Solution) IsDecided() bool {
	return s.Status == SolutionStatusAccepted || s.Status == SolutionStatusRejected
}

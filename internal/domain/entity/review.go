package entity

import (
	"time"
)

// Вердикты ревью
const (
	ReviewVerdictAccepted = "accepted"
	ReviewVerdictRejected = "rejected"
)

// Review представляет ревью, оставленное пользователем на чужое решение.
// Каждое ревью привязано ровно к одному решению и одному ревьюеру.
type Review struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	SolutionID uint   `gorm:"not null;uniqueIndex:idx_reviews_solution_reviewer" json:"solution_id"`
	ReviewerID uint   `gorm:"not null;uniqueIndex:idx_reviews_solution_reviewer" json:"reviewer_id"`
	Verdict    string `gorm:"size:10;not null" json:"verdict"` // accepted, rejected
	Comment    string `gorm:"type:text;not null;default:''" json:"comment"`
	Weight     int    `gorm:"not null;default:1" json:"weight"`

	CreatedAt time.Time `json:"created_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (Review) TableName() string {
	return "reviews"
}

// ValidVerdict проверяет значение вердикта
func ValidVerdict(v string) bool {
	return v == ReviewVerdictAccepted || v == ReviewVerdictRejected
}

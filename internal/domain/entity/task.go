package entity

import (
	"time"
)

// Сложность задачи
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Task представляет задачу для практики.
// После публикации задача этим приложением не изменяется,
// кроме счетчика завершений.
type Task struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Difficulty  string `gorm:"size:10;not null;index" json:"difficulty"` // easy, medium, hard
	Language    string `gorm:"size:30;not null;index" json:"language"`
	Completions int64  `gorm:"not null;default:0" json:"completions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Task) TableName() string {
	return "tasks"
}

// ValidDifficulty проверяет значение сложности
func ValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

package repository

import (
	"github.com/yourusername/codereview-api/internal/domain/entity"
)

// TaskFilters содержит фильтры для листинга задач
type TaskFilters struct {
	Difficulty string
	Language   string
	Search     string
}

// TaskRepository определяет методы для работы с задачами
type TaskRepository interface {
	Create(task *entity.Task) error
	GetByID(id uint) (*entity.Task, error)
	ListWithFilters(filters TaskFilters, limit, offset int) ([]entity.Task, int64, error)

	// IncrementCompletions атомарно увеличивает счетчик завершений задачи
	IncrementCompletions(taskID uint) error
}

package repository

import (
	"github.com/yourusername/codereview-api/internal/domain/entity"
)

// SolutionFilters содержит фильтры для административного листинга решений
type SolutionFilters struct {
	Status string
	TaskID uint
	UserID uint
}

// SolutionRepository определяет методы для работы с решениями
type SolutionRepository interface {
	// Submit сохраняет новое решение как текущее для пары (user, task),
	// снимая флаг текущего с предыдущего решения в той же транзакции
	Submit(solution *entity.Solution) error

	GetByID(id uint) (*entity.Solution, error)

	// GetCurrent возвращает текущее решение пары (user, task)
	GetCurrent(userID, taskID uint) (*entity.Solution, error)

	// ListByUser возвращает текущие решения пользователя с задачами
	ListByUser(userID uint) ([]entity.Solution, error)

	// ListForReview возвращает чужие pending-решения, доступные ревьюеру
	ListForReview(reviewerID uint, limit, offset int) ([]entity.Solution, error)

	ListWithFilters(filters SolutionFilters, limit, offset int) ([]entity.Solution, int64, error)

	// UpdateStatus изменяет статус решения и обновляет updated_at
	UpdateStatus(solutionID uint, status string) error
}

package repository

import (
	"time"

	"github.com/yourusername/codereview-api/internal/domain/entity"
)

// AppealRepository определяет методы для работы с апелляциями
type AppealRepository interface {
	Create(appeal *entity.Appeal) error
	GetByID(id uint) (*entity.Appeal, error)

	// ExistsForUserSolution проверяет, есть ли уже апелляция пары (user, solution).
	// Проверка опережающая: последним рубежом служит уникальный индекс в БД.
	ExistsForUserSolution(userID, solutionID uint) (bool, error)

	// ListPending возвращает pending-апелляции строго в порядке создания
	// (oldest-first, FIFO), с решением, задачей и профилем автора
	ListPending() ([]entity.Appeal, error)

	ListByUser(userID uint) ([]entity.Appeal, error)

	// ListResolved возвращает разрешенные апелляции для административного экспорта
	ListResolved() ([]entity.Appeal, error)

	// Resolve записывает решение администратора в апелляцию.
	// Вызывается ровно один раз: разрешенная апелляция неизменяема.
	Resolve(appealID uint, status string, resolvedBy uint, comment string, resolvedAt time.Time) error
}

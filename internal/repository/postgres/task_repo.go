package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/codereview-api/internal/domain/entity"
	"github.com/yourusername/codereview-api/internal/domain/repository"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
)

// TaskRepo реализует repository.TaskRepository
type TaskRepo struct {
	db *gorm.DB
}

// NewTaskRepo создает новый репозиторий задач
func NewTaskRepo(db *gorm.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

// Create создает новую задачу
func (r *TaskRepo) Create(task *entity.Task) error {
	return r.db.Create(task).Error
}

// GetByID возвращает задачу по ID
func (r *TaskRepo) GetByID(id uint) (*entity.Task, error) {
	var task entity.Task
	err := r.db.First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// ListWithFilters возвращает список задач с фильтрами и total count
func (r *TaskRepo) ListWithFilters(filters repository.TaskFilters, limit, offset int) ([]entity.Task, int64, error) {
	var tasks []entity.Task
	var total int64

	query := r.db.Model(&entity.Task{})

	if filters.Difficulty != "" {
		query = query.Where("difficulty = ?", filters.Difficulty)
	}
	if filters.Language != "" {
		query = query.Where("language = ?", filters.Language)
	}
	if filters.Search != "" {
		search := "%" + filters.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id").Limit(limit).Offset(offset).Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// IncrementCompletions атомарно увеличивает счетчик завершений задачи
func (r *TaskRepo) IncrementCompletions(taskID uint) error {
	return r.db.Model(&entity.Task{}).
		Where("id = ?", taskID).
		UpdateColumn("completions", gorm.Expr("completions + ?", 1)).
		Error
}

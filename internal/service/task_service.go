package service

import (
	"fmt"
	"strings"

	"github.com/yourusername/codereview-api/internal/domain/entity"
	"github.com/yourusername/codereview-api/internal/domain/repository"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
)

// TaskService управляет каталогом задач
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService создает новый сервис задач
func NewTaskService(taskRepo repository.TaskRepository) (*TaskService, error) {
	if taskRepo == nil {
		return nil, fmt.Errorf("TaskRepository is required for TaskService")
	}
	return &TaskService{taskRepo: taskRepo}, nil
}

// Create добавляет задачу в каталог (только администратор)
func (s *TaskService) Create(title, description, difficulty, language string) (*entity.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: title and description are required", apperrors.ErrValidation)
	}
	if !entity.ValidDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: invalid difficulty %q", apperrors.ErrValidation, difficulty)
	}

	task := &entity.Task{
		Title:       title,
		Description: description,
		Difficulty:  difficulty,
		Language:    language,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

// GetByID возвращает задачу по ID
func (s *TaskService) GetByID(taskID uint) (*entity.Task, error) {
	return s.taskRepo.GetByID(taskID)
}

// ListWithFilters возвращает каталог задач с фильтрами и пагинацией
func (s *TaskService) ListWithFilters(filters repository.TaskFilters, limit, offset int) ([]entity.Task, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.taskRepo.ListWithFilters(filters, limit, offset)
}

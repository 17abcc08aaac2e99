package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/codereview-api/internal/domain/entity"
	"github.com/yourusername/codereview-api/internal/domain/repository"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
)

// SolutionService управляет отправкой решений и их жизненным циклом
type SolutionService struct {
	solutionRepo repository.SolutionRepository
	taskRepo     repository.TaskRepository
}

// NewSolutionService создает новый сервис решений
func NewSolutionService(solutionRepo repository.SolutionRepository, taskRepo repository.TaskRepository) (*SolutionService, error) {
	if solutionRepo == nil || taskRepo == nil {
		return nil, fmt.Errorf("SolutionService requires solution and task repositories")
	}
	return &SolutionService{
		solutionRepo: solutionRepo,
		taskRepo:     taskRepo,
	}, nil
}

// Submit принимает решение пользователя по задаче.
// Повторная отправка разрешена только после отклонения текущего решения:
// pending-решение должно дождаться вердикта, accepted пересдавать нельзя.
func (s *SolutionService) Submit(userID, taskID uint, code string) (*entity.Solution, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: solution code is required", apperrors.ErrValidation)
	}

	if _, err := s.taskRepo.GetByID(taskID); err != nil {
		return nil, err
	}

	current, err := s.solutionRepo.GetCurrent(userID, taskID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if current != nil && !current.CanResubmit() {
		return nil, fmt.Errorf("%w: current solution is %s, resubmission is allowed only after rejection", apperrors.ErrConflict, current.Status)
	}

	solution := &entity.Solution{
		TaskID:    taskID,
		UserID:    userID,
		Code:      code,
		Status:    entity.SolutionStatusPending,
		IsCurrent: true,
	}
	if err := s.solutionRepo.Submit(solution); err != nil {
		return nil, err
	}

	log.Printf("[SolutionService.Submit] Решение ID=%d отправлено user=%d task=%d", solution.ID, userID, taskID)
	return solution, nil
}

// GetByID возвращает решение по ID
func (s *SolutionService) GetByID(solutionID uint) (*entity.Solution, error) {
	return s.solutionRepo.GetByID(solutionID)
}

// ListByUser возвращает текущие решения пользователя с задачами
func (s *SolutionService) ListByUser(userID uint) ([]entity.Solution, error) {
	return s.solutionRepo.ListByUser(userID)
}

// ListForReview возвращает чужие pending-решения, на которые ревьюер
// еще не оставлял ревью
func (s *SolutionService) ListForReview(reviewerID uint, limit, offset int) ([]entity.Solution, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.solutionRepo.ListForReview(reviewerID, limit, offset)
}

// ListWithFilters возвращает решения для административного листинга
func (s *SolutionService) ListWithFilters(filters repository.SolutionFilters, limit, offset int) ([]entity.Solution, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.solutionRepo.ListWithFilters(filters, limit, offset)
}

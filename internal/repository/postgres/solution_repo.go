package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/codereview-api/internal/domain/entity"
	"github.com/yourusername/codereview-api/internal/domain/repository"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
)

// SolutionRepo реализует repository.SolutionRepository
type SolutionRepo struct {
	db *gorm.DB
}

// NewSolutionRepo создает новый репозиторий решений
func NewSolutionRepo(db *gorm.DB) *SolutionRepo {
	return &SolutionRepo{db: db}
}

// Submit сохраняет новое решение как текущее для пары (user, task).
// Снятие флага с предыдущего решения и вставка выполняются в одной транзакции,
// чтобы в паре не оказалось двух текущих решений.
func (r *SolutionRepo) Submit(solution *entity.Solution) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entity.Solution{}).
			Where("user_id = ? AND task_id = ? AND is_current = ?", solution.UserID, solution.TaskID, true).
			Updates(map[string]interface{}{"is_current": false, "updated_at": time.Now()}).
			Error
		if err != nil {
			return err
		}

		solution.IsCurrent = true
		return tx.Create(solution).Error
	})
}

// GetByID возвращает решение по ID вместе с задачей
func (r *SolutionRepo) GetByID(id uint) (*entity.Solution, error) {
	var solution entity.Solution
	err := r.db.Preload("Task").First(&solution, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &solution, nil
}

// GetCurrent возвращает текущее решение пары (user, task)
func (r *SolutionRepo) GetCurrent(userID, taskID uint) (*entity.Solution, error) {
	var solution entity.Solution
	err := r.db.Where("user_id = ? AND task_id = ? AND is_current = ?", userID, taskID, true).
		First(&solution).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &solution, nil
}

// ListByUser возвращает текущие решения пользователя вместе с задачами
func (r *SolutionRepo) ListByUser(userID uint) ([]entity.Solution, error) {
	var solutions []entity.Solution
	err := r.db.Preload("Task").
		Where("user_id = ? AND is_current = ?", userID, true).
		Order("created_at DESC").
		Find(&solutions).Error
	return solutions, err
}

// ListForReview возвращает чужие текущие pending-решения,
// на которые ревьюер еще не оставлял ревью
func (r *SolutionRepo) ListForReview(reviewerID uint, limit, offset int) ([]entity.Solution, error) {
	var solutions []entity.Solution
	err := r.db.Preload("Task").
		Where("status = ? AND is_current = ? AND user_id <> ?", entity.SolutionStatusPending, true, reviewerID).
		Where("id NOT IN (?)", r.db.Model(&entity.Review{}).Select("solution_id").Where("reviewer_id = ?", reviewerID)).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&solutions).Error
	return solutions, err
}

// ListWithFilters возвращает список решений с фильтрами и total count (административный листинг)
func (r *SolutionRepo) ListWithFilters(filters repository.SolutionFilters, limit, offset int) ([]entity.Solution, int64, error) {
	var solutions []entity.Solution
	var total int64

	query := r.db.Model(&entity.Solution{}).Where("is_current = ?", true)

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.TaskID != 0 {
		query = query.Where("task_id = ?", filters.TaskID)
	}
	if filters.UserID != 0 {
		query = query.Where("user_id = ?", filters.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Task").Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&solutions).Error
	if err != nil {
		return nil, 0, err
	}

	return solutions, total, nil
}

// UpdateStatus изменяет статус решения и обновляет updated_at
func (r *SolutionRepo) UpdateStatus(solutionID uint, status string) error {
	result := r.db.Model(&entity.Solution{}).
		Where("id = ?", solutionID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

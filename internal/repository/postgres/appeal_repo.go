package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourusername/codereview-api/internal/domain/entity"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
)

// AppealRepo реализует repository.AppealRepository
type AppealRepo struct {
	db *gorm.DB
}

// NewAppealRepo создает новый репозиторий апелляций
func NewAppealRepo(db *gorm.DB) *AppealRepo {
	return &AppealRepo{db: db}
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

// Create создает новую апелляцию в статусе pending.
// Повторная апелляция той же пары (user, solution) ловится уникальным индексом:
// проверка сервиса опережающая, индекс закрывает гонку двух одновременных отправок.
func (r *AppealRepo) Create(appeal *entity.Appeal) error {
	err := r.db.Create(appeal).Error
	if err != nil && isUniqueViolation(err) {
		return apperrors.ErrConflict
	}
	return err
}

// GetByID возвращает апелляцию по ID вместе с автором, решением и задачей.
// Автор и задача нужны при разборе: уведомление и письмо строятся из них.
func (r *AppealRepo) GetByID(id uint) (*entity.Appeal, error) {
	var appeal entity.Appeal
	err := r.db.Preload("User").Preload("Solution").Preload("Solution.Task").First(&appeal, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &appeal, nil
}

// ExistsForUserSolution проверяет, есть ли уже апелляция пары (user, solution)
func (r *AppealRepo) ExistsForUserSolution(userID, solutionID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Appeal{}).
		Where("user_id = ? AND solution_id = ?", userID, solutionID).
		Count(&count).Error
	return count > 0, err
}

// ListPending возвращает pending-апелляции строго в порядке создания (oldest-first):
// более старые жалобы рассматриваются первыми
func (r *AppealRepo) ListPending() ([]entity.Appeal, error) {
	var appeals []entity.Appeal
	err := r.db.Preload("Solution").Preload("Solution.Task").Preload("User").
		Where("status = ?", entity.AppealStatusPending).
		Order("created_at ASC").
		Find(&appeals).Error
	return appeals, err
}

// ListByUser возвращает апелляции пользователя, новые первыми
func (r *AppealRepo) ListByUser(userID uint) ([]entity.Appeal, error) {
	var appeals []entity.Appeal
	err := r.db.Preload("Solution").Preload("Solution.Task").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&appeals).Error
	return appeals, err
}

// ListResolved возвращает разрешенные апелляции для административного экспорта
func (r *AppealRepo) ListResolved() ([]entity.Appeal, error) {
	var appeals []entity.Appeal
	err := r.db.Preload("Solution").Preload("User").
		Where("status <> ?", entity.AppealStatusPending).
		Order("resolved_at DESC").
		Find(&appeals).Error
	return appeals, err
}

// Resolve записывает решение администратора в апелляцию.
// Обновляется только pending-запись: разрешенная апелляция неизменяема.
func (r *AppealRepo) Resolve(appealID uint, status string, resolvedBy uint, comment string, resolvedAt time.Time) error {
	result := r.db.Model(&entity.Appeal{}).
		Where("id = ? AND status = ?", appealID, entity.AppealStatusPending).
		Updates(map[string]interface{}{
			"status":             status,
			"resolved_by":        resolvedBy,
			"resolution_comment": comment,
			"resolved_at":        resolvedAt,
			"updated_at":         resolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Либо апелляции нет, либо она уже разрешена
		return apperrors.ErrConflict
	}
	return nil
}

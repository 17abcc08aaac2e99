package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/codereview-api/internal/domain/entity"
	"github.com/yourusername/codereview-api/internal/domain/repository"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
)

// ReviewRepo реализует repository.ReviewRepository
type ReviewRepo struct {
	db *gorm.DB
}

// NewReviewRepo создает новый репозиторий ревью
func NewReviewRepo(db *gorm.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// Create создает новое ревью.
// Повторное ревью того же ревьюера ловится уникальным индексом (solution_id, reviewer_id).
func (r *ReviewRepo) Create(review *entity.Review) error {
	err := r.db.Create(review).Error
	if err != nil && isUniqueViolation(err) {
		return apperrors.ErrConflict
	}
	return err
}

// ListBySolution возвращает ревью решения вместе с профилями ревьюеров
func (r *ReviewRepo) ListBySolution(solutionID uint) ([]entity.Review, error) {
	var reviews []entity.Review
	err := r.db.Preload("Reviewer").
		Where("solution_id = ?", solutionID).
		Order("created_at ASC").
		Find(&reviews).Error
	return reviews, err
}

// ExistsForReviewer проверяет, оставлял ли ревьюер ревью на это решение
func (r *ReviewRepo) ExistsForReviewer(solutionID, reviewerID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Review{}).
		Where("solution_id = ? AND reviewer_id = ?", solutionID, reviewerID).
		Count(&count).Error
	return count > 0, err
}

// TallyVerdicts возвращает взвешенные суммы вердиктов по решению
func (r *ReviewRepo) TallyVerdicts(solutionID uint) (*repository.VerdictTally, error) {
	type row struct {
		Verdict string
		Sum     int
	}
	var rows []row

	err := r.db.Model(&entity.Review{}).
		Select("verdict, COALESCE(SUM(weight), 0) AS sum").
		Where("solution_id = ?", solutionID).
		Group("verdict").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	tally := &repository.VerdictTally{}
	for _, rw := range rows {
		switch rw.Verdict {
		case entity.ReviewVerdictAccepted:
			tally.Accepted = rw.Sum
		case entity.ReviewVerdictRejected:
			tally.Rejected = rw.Sum
		}
	}
	tally.Total = tally.Accepted + tally.Rejected
	return tally, nil
}

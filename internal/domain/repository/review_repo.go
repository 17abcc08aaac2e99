package repository

import (
	"github.com/yourusername/codereview-api/internal/domain/entity"
)

// VerdictTally содержит взвешенные суммы вердиктов по решению
type VerdictTally struct {
	Accepted int
	Rejected int
	Total    int
}

// ReviewRepository определяет методы для работы с ревью
type ReviewRepository interface {
	Create(review *entity.Review) error

	// ListBySolution возвращает ревью решения вместе с профилями ревьюеров
	ListBySolution(solutionID uint) ([]entity.Review, error)

	// ExistsForReviewer проверяет, оставлял ли ревьюер ревью на это решение
	ExistsForReviewer(solutionID, reviewerID uint) (bool, error)

	// TallyVerdicts возвращает взвешенные суммы вердиктов по решению
	TallyVerdicts(solutionID uint) (*VerdictTally, error)
}

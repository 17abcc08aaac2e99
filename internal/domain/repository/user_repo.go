package repository

import (
	"github.com/yourusername/codereview-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(user *entity.User) error
	UpdateProfile(userID uint, updates map[string]interface{}) error

	// AdjustBalance атомарно изменяет баланс кредитов на delta.
	// Итоговое значение никогда не опускается ниже нуля:
	// списание с нулевого баланса оставляет ноль.
	AdjustBalance(userID uint, delta int) error

	// RegisterCompletedReview увеличивает счетчик завершенных ревью,
	// корректирует trust_rating и пересчитывает уровень одним запросом.
	RegisterCompletedReview(userID uint, trustDelta float64) error

	// ApplyTrustPenalty снижает trust_rating с нижней границей 0
	ApplyTrustPenalty(userID uint, penalty float64) error

	// IncrementStreak увеличивает серию принятых решений, ResetStreak обнуляет её
	IncrementStreak(userID uint) error
	ResetStreak(userID uint) error

	List(limit, offset int) ([]entity.User, error)

	// GetLeaderboard возвращает пользователей для лидерборда ревьюеров
	// с пагинацией и общим количеством
	GetLeaderboard(limit, offset int) ([]entity.User, int64, error)
}

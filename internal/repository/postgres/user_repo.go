package postgres

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/codereview-api/internal/domain/entity"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя
func (r *UserRepo) Create(user *entity.User) error {
	return r.db.Create(user).Error
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername возвращает пользователя по имени пользователя
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update обновляет информацию о пользователе
func (r *UserRepo) Update(user *entity.User) error {
	return r.db.Save(user).Error
}

// UpdateProfile обновляет профиль пользователя без изменения пароля и баланса
func (r *UserRepo) UpdateProfile(userID uint, updates map[string]interface{}) error {
	// Пароль и баланс через этот метод не обновляются
	delete(updates, "password")
	delete(updates, "review_balance")

	updates["updated_at"] = time.Now()

	return r.db.Model(&entity.User{}).Where("id = ?", userID).Updates(updates).Error
}

// AdjustBalance атомарно изменяет баланс кредитов на delta.
// GREATEST не дает штрафным операциям увести баланс ниже нуля:
// два одновременных списания не потеряют обновление и не дадут отрицательное значение.
func (r *UserRepo) AdjustBalance(userID uint, delta int) error {
	result := r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		UpdateColumn("review_balance", gorm.Expr("GREATEST(review_balance + ?, 0)", delta))
	if result.Error != nil {
		log.Printf("[UserRepo.AdjustBalance] Ошибка изменения баланса пользователя ID=%d на %+d: %v", userID, delta, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RegisterCompletedReview увеличивает счетчик завершенных ревью,
// поднимает trust_rating (с потолком 100) и пересчитывает уровень одним запросом
func (r *UserRepo) RegisterCompletedReview(userID uint, trustDelta float64) error {
	result := r.db.Exec(
		`UPDATE users SET
			reviews_completed = reviews_completed + 1,
			trust_rating = LEAST(trust_rating + ?, 100),
			level = CASE
				WHEN reviews_completed + 1 >= ? THEN 'expert'
				WHEN reviews_completed + 1 >= ? THEN 'reviewer'
				ELSE 'beginner'
			END,
			updated_at = ?
		WHERE id = ?`,
		trustDelta, entity.ExpertLevelThreshold, entity.ReviewerLevelThreshold, time.Now(), userID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ApplyTrustPenalty снижает trust_rating с нижней границей 0
func (r *UserRepo) ApplyTrustPenalty(userID uint, penalty float64) error {
	return r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		UpdateColumn("trust_rating", gorm.Expr("GREATEST(trust_rating - ?, 0)", penalty)).
		Error
}

// IncrementStreak увеличивает серию принятых решений
func (r *UserRepo) IncrementStreak(userID uint) error {
	return r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		UpdateColumn("streak", gorm.Expr("streak + ?", 1)).
		Error
}

// ResetStreak обнуляет серию принятых решений
func (r *UserRepo) ResetStreak(userID uint) error {
	return r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		UpdateColumn("streak", 0).
		Error
}

// List возвращает список пользователей с пагинацией
func (r *UserRepo) List(limit, offset int) ([]entity.User, error) {
	var users []entity.User
	err := r.db.Limit(limit).Offset(offset).Order("id").Find(&users).Error
	return users, err
}

// GetLeaderboard возвращает пользователей для лидерборда ревьюеров с пагинацией
// и общим количеством, отсортированных по числу ревью и рейтингу доверия.
func (r *UserRepo) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	var users []entity.User
	var total int64

	// Транзакция для согласованности чтения данных и общего количества
	tx := r.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	err := tx.Model(&entity.User{}).Count(&total).Error
	if err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	// Сортируем по reviews_completed DESC, trust_rating DESC, и ID для стабильности
	err = tx.Order("reviews_completed DESC, trust_rating DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Select("id", "username", "profile_picture", "reviews_completed", "trust_rating", "level", "streak").
		Find(&users).Error
	if err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

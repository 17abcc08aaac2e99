package service

import (
	"fmt"

	"github.com/yourusername/codereview-api/internal/domain/entity"
	"github.com/yourusername/codereview-api/internal/domain/repository"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
)

// LeaderboardEntry - строка лидерборда ревьюеров
type LeaderboardEntry struct {
	Rank             int     `json:"rank"`
	UserID           uint    `json:"user_id"`
	Username         string  `json:"username"`
	ProfilePicture   string  `json:"profile_picture,omitempty"`
	Level            string  `json:"level"`
	ReviewsCompleted int     `json:"reviews_completed"`
	TrustRating      float64 `json:"trust_rating"`
}

// LeaderboardPage - страница лидерборда с пагинацией
type LeaderboardPage struct {
	Entries []LeaderboardEntry `json:"entries"`
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
}

// UserService предоставляет работу с профилями и лидербордом
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository) (*UserService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for UserService")
	}
	return &UserService{userRepo: userRepo}, nil
}

// GetProfile возвращает профиль пользователя
func (s *UserService) GetProfile(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile обновляет разрешенные поля профиля
func (s *UserService) UpdateProfile(userID uint, username, profilePicture string) (*entity.User, error) {
	updates := make(map[string]interface{})
	if username != "" {
		if len(username) < 3 || len(username) > 50 {
			return nil, fmt.Errorf("%w: username must be 3-50 characters", apperrors.ErrValidation)
		}
		updates["username"] = username
	}
	if profilePicture != "" {
		updates["profile_picture"] = profilePicture
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", apperrors.ErrValidation)
	}

	if err := s.userRepo.UpdateProfile(userID, updates); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(userID)
}

// GetLeaderboard возвращает страницу лидерборда ревьюеров.
// Порядок: reviews_completed, затем trust_rating, затем ID для стабильности.
func (s *UserService) GetLeaderboard(page, perPage int) (*LeaderboardPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	users, total, err := s.userRepo.GetLeaderboard(perPage, offset)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:             offset + i + 1,
			UserID:           user.ID,
			Username:         user.Username,
			ProfilePicture:   user.ProfilePicture,
			Level:            user.Level,
			ReviewsCompleted: user.ReviewsCompleted,
			TrustRating:      user.TrustRating,
		})
	}

	return &LeaderboardPage{
		Entries: entries,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

// List возвращает пользователей для административного листинга
func (s *UserService) List(limit, offset int) ([]entity.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.List(limit, offset)
}

package dto

import (
	"time"

	"github.com/yourusername/codereview-api/internal/domain/entity"
)

// UserResponse представляет профиль пользователя в формате для ответа клиенту
type UserResponse struct {
	ID               uint      `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	ProfilePicture   string    `json:"profile_picture,omitempty"`
	ReviewBalance    int       `json:"review_balance"`
	TrustRating      float64   `json:"trust_rating"`
	ReviewsCompleted int       `json:"reviews_completed"`
	Level            string    `json:"level"`
	Streak           int       `json:"streak"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewUserResponse создает DTO профиля
func NewUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		ProfilePicture:   user.ProfilePicture,
		ReviewBalance:    user.ReviewBalance,
		TrustRating:      user.TrustRating,
		ReviewsCompleted: user.ReviewsCompleted,
		Level:            user.Level,
		Streak:           user.Streak,
		CreatedAt:        user.CreatedAt,
	}
}

// PublicUserResponse - сокращенный профиль для чужих глаз (без email и баланса)
type PublicUserResponse struct {
	ID               uint    `json:"id"`
	Username         string  `json:"username"`
	ProfilePicture   string  `json:"profile_picture,omitempty"`
	TrustRating      float64 `json:"trust_rating"`
	ReviewsCompleted int     `json:"reviews_completed"`
	Level            string  `json:"level"`
}

// NewPublicUserResponse создает публичный DTO пользователя
func NewPublicUserResponse(user *entity.User) *PublicUserResponse {
	if user == nil {
		return nil
	}
	return &PublicUserResponse{
		ID:               user.ID,
		Username:         user.Username,
		ProfilePicture:   user.ProfilePicture,
		TrustRating:      user.TrustRating,
		ReviewsCompleted: user.ReviewsCompleted,
		Level:            user.Level,
	}
}

package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/codereview-api/internal/domain/entity"
	"github.com/yourusername/codereview-api/internal/domain/repository"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
	"github.com/yourusername/codereview-api/pkg/auth"
)

// AuthService предоставляет методы для регистрации и аутентификации пользователей
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// RegisterInput содержит все данные для регистрации
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// TokenResponse содержит выданный токен и профиль пользователя
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	User        *entity.User `json:"user"`
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}, nil
}

// RegisterUser регистрирует нового пользователя
func (s *AuthService) RegisterUser(input RegisterInput) (*entity.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if username == "" || email == "" || len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: username, email and password (min 8 chars) are required", apperrors.ErrValidation)
	}

	// Проверяем уникальность email и username
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email is already taken", apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, fmt.Errorf("%w: username is already taken", apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: input.Password, // Хешируется хуком BeforeSave
		Role:     entity.RoleUser,
		Level:    entity.LevelBeginner,
	}

	if err := s.userRepo.Create(user); err != nil {
		log.Printf("[AuthService.RegisterUser] Ошибка создания пользователя email=%s: %v", email, err)
		return nil, err
	}

	log.Printf("[AuthService.RegisterUser] Зарегистрирован пользователь ID=%d username=%s", user.ID, user.Username)
	return user, nil
}

// LoginUser проверяет учетные данные и выдает access-токен
func (s *AuthService) LoginUser(email, password string) (*TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, apperrors.ErrUnauthorized
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		log.Printf("[AuthService.LoginUser] Ошибка генерации токена для ID=%d: %v", user.ID, err)
		return nil, err
	}

	return &TokenResponse{
		AccessToken: token,
		User:        user,
	}, nil
}

// GetUserByID возвращает пользователя по ID
func (s *AuthService) GetUserByID(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// ChangePassword меняет пароль после проверки старого
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: new password must be at least 8 chars", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if !user.CheckPassword(oldPassword) {
		return apperrors.ErrUnauthorized
	}

	user.Password = newPassword // Хешируется хуком BeforeSave
	return s.userRepo.Update(user)
}

// GenerateWsTicket выдает короткоживущий тикет для WebSocket-соединения
func (s *AuthService) GenerateWsTicket(userID uint) (string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", err
	}
	return s.jwtService.GenerateWsTicket(user.ID, user.Email, user.Role)
}

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
)

// JWTCustomClaims содержит пользовательские поля для токена
type JWTCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
	// Usage отличает одноразовый тикет для WebSocket от обычного access-токена
	Usage string `json:"usage,omitempty"`
}

// Назначения токенов
const (
	UsageAccess   = ""
	UsageWSTicket = "ws_ticket"
)

// JWTService предоставляет методы для работы с JWT
type JWTService struct {
	secret         []byte
	expirationHrs  int
	wsTicketExpiry time.Duration
}

// NewJWTService создает новый сервис JWT и возвращает ошибку при проблемах
func NewJWTService(secret string, expirationHrs int, wsTicketExpirySec int) (*JWTService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required for JWTService")
	}
	if expirationHrs <= 0 {
		expirationHrs = 24
	}
	wsExpiry := time.Duration(wsTicketExpirySec) * time.Second
	if wsExpiry <= 0 {
		wsExpiry = 60 * time.Second
	}

	return &JWTService{
		secret:         []byte(secret),
		expirationHrs:  expirationHrs,
		wsTicketExpiry: wsExpiry,
	}, nil
}

// GenerateToken создает access-токен для пользователя
func (s *JWTService) GenerateToken(userID uint, email, role string) (string, error) {
	now := time.Now()
	claims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expirationHrs) * time.Hour)),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// GenerateWsTicket создает короткоживущий тикет для открытия WebSocket-соединения.
// Браузерный WebSocket API не позволяет передать заголовок Authorization,
// поэтому подключение авторизуется отдельным тикетом в query-параметре.
func (s *JWTService) GenerateWsTicket(userID uint, email, role string) (string, error) {
	now := time.Now()
	claims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Usage:  UsageWSTicket,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.wsTicketExpiry)),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken проверяет подпись и срок действия access-токена
func (s *JWTService) ParseToken(tokenString string) (*JWTCustomClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Usage != UsageAccess {
		// WS-тикет не дает доступа к HTTP API
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}

// ParseWsTicket проверяет тикет для WebSocket-соединения
func (s *JWTService) ParseWsTicket(tokenString string) (*JWTCustomClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Usage != UsageWSTicket {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}

func (s *JWTService) parse(tokenString string) (*JWTCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if jwtErr, ok := err.(*jwt.ValidationError); ok && jwtErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, apperrors.ErrExpiredToken
		}
		return nil, apperrors.ErrUnauthorized
	}

	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}

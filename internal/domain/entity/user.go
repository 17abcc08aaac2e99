package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Уровни пользователя в зависимости от количества завершенных ревью
const (
	LevelBeginner = "beginner"
	LevelReviewer = "reviewer"
	LevelExpert   = "expert"

	// Пороги перехода между уровнями
	ReviewerLevelThreshold = 10
	ExpertLevelThreshold   = 50
)

// Роли пользователя
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет пользователя платформы с его профилем и балансом ревью-кредитов
type User struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Username       string `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email          string `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password       string `gorm:"size:100;not null" json:"-"`
	ProfilePicture string `gorm:"size:255;not null;default:''" json:"profile_picture"`
	Role           string `gorm:"size:20;not null;default:'user'" json:"-"` // "user" или "admin"

	// ReviewBalance - баланс кредитов на ревью. Штрафные операции не могут увести его ниже нуля.
	ReviewBalance    int     `gorm:"not null;default:0" json:"review_balance"`
	TrustRating      float64 `gorm:"not null;default:50" json:"trust_rating"`
	ReviewsCompleted int     `gorm:"not null;default:0;index:idx_users_reviewers" json:"reviews_completed"`
	Level            string  `gorm:"size:20;not null;default:'beginner'" json:"level"`
	Streak           int     `gorm:"not null;default:0" json:"streak"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// LevelForReviews возвращает уровень, соответствующий количеству завершенных ревью
func LevelForReviews(reviewsCompleted int) string {
	switch {
	case reviewsCompleted >= ExpertLevelThreshold:
		return LevelExpert
	case reviewsCompleted >= ReviewerLevelThreshold:
		return LevelReviewer
	default:
		return LevelBeginner
	}
}

// RecalculateLevel пересчитывает уровень пользователя по счетчику ревью
func (u *User) RecalculateLevel() {
	u.Level = LevelForReviews(u.ReviewsCompleted)
}

// IsAdmin сообщает, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешем
func (u *User) BeforeSave(tx *gorm.DB) error {
	// Хешируем пароль только если он:
	// 1. Не пустой
	// 2. Не является уже bcrypt-хешем (начинается с "$2a$", "$2b$" или "$2y$")
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

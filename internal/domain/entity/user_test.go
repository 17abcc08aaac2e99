package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// mockTx создаёт минимальный мок для передачи в BeforeSave
// В реальности BeforeSave не использует tx напрямую, но сигнатура требует его
var mockTx *gorm.DB = nil

func TestUser_BeforeSave_HashesPassword(t *testing.T) {
	// Arrange: создаём пользователя с открытым паролем
	plainPassword := "mySecretPassword123"
	user := &User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: plainPassword,
	}

	// Act: вызываем BeforeSave
	err := user.BeforeSave(mockTx)

	// Assert: пароль должен быть хеширован
	require.NoError(t, err, "BeforeSave не должен возвращать ошибку")
	assert.NotEqual(t, plainPassword, user.Password, "Пароль должен быть изменён после хеширования")

	// Проверяем, что пароль действительно bcrypt-хеш
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(plainPassword))
	assert.NoError(t, err, "Хеш должен соответствовать исходному паролю")
}

func TestUser_BeforeSave_SkipsAlreadyHashedPassword(t *testing.T) {
	// Arrange: создаём пользователя с уже хешированным паролем
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("alreadyHashed"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}
	originalHash := user.Password

	// Act: вызываем BeforeSave
	err = user.BeforeSave(mockTx)

	// Assert: пароль не должен измениться (нет двойного хеширования)
	require.NoError(t, err, "BeforeSave не должен возвращать ошибку")
	assert.Equal(t, originalHash, user.Password, "Уже хешированный пароль не должен изменяться")
}

func TestUser_CheckPassword(t *testing.T) {
	// Arrange: пользователь с хешированным паролем
	user := &User{Password: "correctPassword123"}
	require.NoError(t, user.BeforeSave(mockTx))

	// Act + Assert
	assert.True(t, user.CheckPassword("correctPassword123"), "Верный пароль должен проходить проверку")
	assert.False(t, user.CheckPassword("wrongPassword"), "Неверный пароль не должен проходить проверку")
}

func TestLevelForReviews_Thresholds(t *testing.T) {
	// Проверяем границы переходов между уровнями
	testCases := []struct {
		reviews int
		level   string
	}{
		{0, LevelBeginner},
		{9, LevelBeginner},
		{10, LevelReviewer},
		{49, LevelReviewer},
		{50, LevelExpert},
		{200, LevelExpert},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.level, LevelForReviews(tc.reviews),
			"Неверный уровень для %d завершенных ревью", tc.reviews)
	}
}

func TestUser_RecalculateLevel(t *testing.T) {
	// Arrange: пользователь, только что перешагнувший порог reviewer
	user := &User{ReviewsCompleted: ReviewerLevelThreshold, Level: LevelBeginner}

	// Act
	user.RecalculateLevel()

	// Assert
	assert.Equal(t, LevelReviewer, user.Level, "Уровень должен пересчитаться по счетчику ревью")
}

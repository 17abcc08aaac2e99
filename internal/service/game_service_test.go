package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/codereview-api/internal/config"
	"github.com/yourusername/codereview-api/internal/domain/entity"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
)

func defaultGameConfig() config.GameConfig {
	return config.GameConfig{
		WagerCost:     1,
		WinReward:     2,
		DailyAttempts: 3,
	}
}

func newTestGameService(t *testing.T, userRepo *MockUserRepository, cacheRepo *MockCacheRepository, judge JudgeService) *GameService {
	t.Helper()
	svc, err := NewGameService(userRepo, cacheRepo, judge, defaultGameConfig())
	require.NoError(t, err)
	return svc
}

func TestGameService_Start_InsufficientBalance(t *testing.T) {
	// Arrange: нулевой баланс не дает сделать ставку
	userRepo := new(MockUserRepository)
	cacheRepo := new(MockCacheRepository)

	broke := &entity.User{ID: 1, ReviewBalance: 0}
	userRepo.On("GetByID", uint(1)).Return(broke, nil)

	svc := newTestGameService(t, userRepo, cacheRepo, nil)

	// Act
	round, err := svc.Start(context.Background(), 1, "go")

	// Assert
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Nil(t, round)
	userRepo.AssertNotCalled(t, "AdjustBalance")
}

func TestGameService_Start_DailyLimitReached(t *testing.T) {
	// Arrange: счетчик попыток уже на дневном лимите
	userRepo := new(MockUserRepository)
	cacheRepo := new(MockCacheRepository)

	rich := &entity.User{ID: 1, ReviewBalance: 10}
	userRepo.On("GetByID", uint(1)).Return(rich, nil)
	cacheRepo.On("Get", mock.AnythingOfType("string")).Return("3", nil)

	svc := newTestGameService(t, userRepo, cacheRepo, nil)

	// Act
	round, err := svc.Start(context.Background(), 1, "go")

	// Assert
	assert.ErrorIs(t, err, ErrDailyLimitReached)
	assert.Nil(t, round)
	userRepo.AssertNotCalled(t, "AdjustBalance")
}

func TestGameService_Start_CacheOutageBlocksRound(t *testing.T) {
	// Arrange: счетчик попыток недоступен — раунд не начинается,
	// ставка не списывается
	userRepo := new(MockUserRepository)
	cacheRepo := new(MockCacheRepository)

	user := &entity.User{ID: 1, ReviewBalance: 5}
	userRepo.On("GetByID", uint(1)).Return(user, nil)
	cacheRepo.On("Get", mock.AnythingOfType("string")).Return("", errors.New("redis: connection refused"))

	svc := newTestGameService(t, userRepo, cacheRepo, &NoopJudgeService{})

	// Act
	round, err := svc.Start(context.Background(), 1, "go")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, round)
	userRepo.AssertNotCalled(t, "AdjustBalance")
	cacheRepo.AssertNotCalled(t, "Increment")
}

func TestGameService_Start_DebitsWagerBeforeChallenge(t *testing.T) {
	// Arrange: ставка списывается до обращения к внешнему сервису
	userRepo := new(MockUserRepository)
	cacheRepo := new(MockCacheRepository)

	user := &entity.User{ID: 1, ReviewBalance: 5}
	userRepo.On("GetByID", uint(1)).Return(user, nil)
	cacheRepo.On("Get", mock.AnythingOfType("string")).Return("", apperrors.ErrNotFound)
	userRepo.On("AdjustBalance", uint(1), -1).Return(nil)
	cacheRepo.On("Increment", mock.AnythingOfType("string")).Return(int64(1), nil)
	cacheRepo.On("ExpireAt", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)
	cacheRepo.On("Set", "game:question:1", mock.Anything, gameQuestionTTL).Return(nil)

	svc := newTestGameService(t, userRepo, cacheRepo, &NoopJudgeService{})

	// Act
	round, err := svc.Start(context.Background(), 1, "go")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, round)
	assert.NotEmpty(t, round.Question)
	assert.Equal(t, 2, round.AttemptsRemaining)
	assert.Equal(t, 4, round.Balance)
	userRepo.AssertExpectations(t)
	cacheRepo.AssertExpectations(t)
}

func TestGameService_SubmitAnswer_WinCreditsReward(t *testing.T) {
	// Arrange: NoopJudgeService всегда отвечает "true"
	userRepo := new(MockUserRepository)
	cacheRepo := new(MockCacheRepository)

	cacheRepo.On("Get", "game:question:1").Return("Что вернет append(nil, 1)?", nil)
	cacheRepo.On("Delete", "game:question:1").Return(nil)
	userRepo.On("AdjustBalance", uint(1), 2).Return(nil)

	svc := newTestGameService(t, userRepo, cacheRepo, &NoopJudgeService{})

	// Act
	result, err := svc.SubmitAnswer(context.Background(), 1, "слайс с одним элементом")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Won)
	assert.Equal(t, 2, result.Reward)
	userRepo.AssertExpectations(t)
}

func TestGameService_SubmitAnswer_NoActiveRound(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	cacheRepo := new(MockCacheRepository)

	cacheRepo.On("Get", "game:question:1").Return("", apperrors.ErrNotFound)

	svc := newTestGameService(t, userRepo, cacheRepo, &NoopJudgeService{})

	// Act
	result, err := svc.SubmitAnswer(context.Background(), 1, "ответ")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
	userRepo.AssertNotCalled(t, "AdjustBalance")
}

func TestGameService_AttemptsRemaining(t *testing.T) {
	// Arrange
	cacheRepo := new(MockCacheRepository)
	cacheRepo.On("Get", mock.AnythingOfType("string")).Return("2", nil)

	svc := newTestGameService(t, new(MockUserRepository), cacheRepo, nil)

	// Act
	remaining, err := svc.AttemptsRemaining(1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
}

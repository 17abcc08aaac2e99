package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/codereview-api/internal/config"
	"github.com/yourusername/codereview-api/internal/domain/entity"
	"github.com/yourusername/codereview-api/internal/domain/repository"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
)

// ============================================================================
// Моки репозиториев. Используются и в других тестах сервисов этого пакета.
// ============================================================================

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(userID uint, updates map[string]interface{}) error {
	args := m.Called(userID, updates)
	return args.Error(0)
}

func (m *MockUserRepository) AdjustBalance(userID uint, delta int) error {
	args := m.Called(userID, delta)
	return args.Error(0)
}

func (m *MockUserRepository) RegisterCompletedReview(userID uint, trustDelta float64) error {
	args := m.Called(userID, trustDelta)
	return args.Error(0)
}

func (m *MockUserRepository) ApplyTrustPenalty(userID uint, penalty float64) error {
	args := m.Called(userID, penalty)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementStreak(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) ResetStreak(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) List(limit, offset int) ([]entity.User, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.User), args.Get(1).(int64), args.Error(2)
}

// MockSolutionRepository реализует repository.SolutionRepository
type MockSolutionRepository struct {
	mock.Mock
}

func (m *MockSolutionRepository) Submit(solution *entity.Solution) error {
	args := m.Called(solution)
	return args.Error(0)
}

func (m *MockSolutionRepository) GetByID(id uint) (*entity.Solution, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Solution), args.Error(1)
}

func (m *MockSolutionRepository) GetCurrent(userID, taskID uint) (*entity.Solution, error) {
	args := m.Called(userID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Solution), args.Error(1)
}

func (m *MockSolutionRepository) ListByUser(userID uint) ([]entity.Solution, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Solution), args.Error(1)
}

func (m *MockSolutionRepository) ListForReview(reviewerID uint, limit, offset int) ([]entity.Solution, error) {
	args := m.Called(reviewerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Solution), args.Error(1)
}

func (m *MockSolutionRepository) ListWithFilters(filters repository.SolutionFilters, limit, offset int) ([]entity.Solution, int64, error) {
	args := m.Called(filters, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Solution), args.Get(1).(int64), args.Error(2)
}

func (m *MockSolutionRepository) UpdateStatus(solutionID uint, status string) error {
	args := m.Called(solutionID, status)
	return args.Error(0)
}

// MockReviewRepository реализует repository.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(review *entity.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockReviewRepository) ListBySolution(solutionID uint) ([]entity.Review, error) {
	args := m.Called(solutionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) ExistsForReviewer(solutionID, reviewerID uint) (bool, error) {
	args := m.Called(solutionID, reviewerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) TallyVerdicts(solutionID uint) (*repository.VerdictTally, error) {
	args := m.Called(solutionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.VerdictTally), args.Error(1)
}

// MockAppealRepository реализует repository.AppealRepository
type MockAppealRepository struct {
	mock.Mock
}

func (m *MockAppealRepository) Create(appeal *entity.Appeal) error {
	args := m.Called(appeal)
	return args.Error(0)
}

func (m *MockAppealRepository) GetByID(id uint) (*entity.Appeal, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Appeal), args.Error(1)
}

func (m *MockAppealRepository) ExistsForUserSolution(userID, solutionID uint) (bool, error) {
	args := m.Called(userID, solutionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAppealRepository) ListPending() ([]entity.Appeal, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Appeal), args.Error(1)
}

func (m *MockAppealRepository) ListByUser(userID uint) ([]entity.Appeal, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Appeal), args.Error(1)
}

func (m *MockAppealRepository) ListResolved() ([]entity.Appeal, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Appeal), args.Error(1)
}

func (m *MockAppealRepository) Resolve(appealID uint, status string, resolvedBy uint, comment string, resolvedAt time.Time) error {
	args := m.Called(appealID, status, resolvedBy, comment, resolvedAt)
	return args.Error(0)
}

// MockCacheRepository реализует repository.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepository) Increment(key string) (int64, error) {
	args := m.Called(key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepository) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) ExpireAt(key string, expiration time.Time) error {
	args := m.Called(key, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) SetNX(key string, value interface{}, expiration time.Duration) (bool, error) {
	args := m.Called(key, value, expiration)
	return args.Bool(0), args.Error(1)
}

// ============================================================================
// Хелперы
// ============================================================================

func defaultArbiterConfig() config.ArbiterConfig {
	return config.ArbiterConfig{
		ApprovedReward:  5,
		ReviewerPenalty: 1,
		ReviewsToDecide: 3,
	}
}

func newTestAppealService(t *testing.T, appealRepo *MockAppealRepository, solutionRepo *MockSolutionRepository, reviewRepo *MockReviewRepository, userRepo *MockUserRepository, cacheRepo *MockCacheRepository) *AppealService {
	t.Helper()
	var cache repository.CacheRepository
	if cacheRepo != nil {
		cache = cacheRepo
	}
	svc, err := NewAppealService(appealRepo, solutionRepo, reviewRepo, userRepo, cache, nil, &NoopEmailService{}, nil, defaultArbiterConfig())
	require.NoError(t, err)
	return svc
}

// ============================================================================
// Подача апелляции
// ============================================================================

func TestAppealService_Create_Success(t *testing.T) {
	// Arrange
	appealRepo := new(MockAppealRepository)
	solutionRepo := new(MockSolutionRepository)
	cacheRepo := new(MockCacheRepository)

	rejected := &entity.Solution{ID: 10, UserID: 1, TaskID: 3, Status: entity.SolutionStatusRejected}
	solutionRepo.On("GetByID", uint(10)).Return(rejected, nil)
	appealRepo.On("ExistsForUserSolution", uint(1), uint(10)).Return(false, nil)
	appealRepo.On("Create", mock.AnythingOfType("*entity.Appeal")).Return(nil)
	cacheRepo.On("Delete", cacheKeyPendingAppeals).Return(nil)

	svc := newTestAppealService(t, appealRepo, solutionRepo, new(MockReviewRepository), new(MockUserRepository), cacheRepo)

	// Act
	appeal, err := svc.Create(1, 10, "  Ревьюеры не учли ограничение по памяти из условия  ")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, appeal)
	assert.Equal(t, entity.AppealStatusPending, appeal.Status)
	assert.Equal(t, "Ревьюеры не учли ограничение по памяти из условия", appeal.Reason)
	appealRepo.AssertExpectations(t)
	cacheRepo.AssertExpectations(t)
}

func TestAppealService_Create_ShortReason_NoWrites(t *testing.T) {
	// Arrange
	appealRepo := new(MockAppealRepository)
	solutionRepo := new(MockSolutionRepository)

	svc := newTestAppealService(t, appealRepo, solutionRepo, new(MockReviewRepository), new(MockUserRepository), nil)

	// Act: 19 символов после обрезки пробелов
	appeal, err := svc.Create(1, 10, "   1234567890123456789   ")

	// Assert: валидация срабатывает до любого обращения к хранилищу
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, appeal)
	solutionRepo.AssertNotCalled(t, "GetByID")
	appealRepo.AssertNotCalled(t, "Create")
	appealRepo.AssertNotCalled(t, "ExistsForUserSolution")
}

func TestAppealService_Create_Duplicate(t *testing.T) {
	// Arrange
	appealRepo := new(MockAppealRepository)
	solutionRepo := new(MockSolutionRepository)

	rejected := &entity.Solution{ID: 10, UserID: 1, Status: entity.SolutionStatusRejected}
	solutionRepo.On("GetByID", uint(10)).Return(rejected, nil)
	appealRepo.On("ExistsForUserSolution", uint(1), uint(10)).Return(true, nil)

	svc := newTestAppealService(t, appealRepo, solutionRepo, new(MockReviewRepository), new(MockUserRepository), nil)

	// Act
	appeal, err := svc.Create(1, 10, "Прошу пересмотреть вердикт: тесты проходят локально")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Nil(t, appeal)
	appealRepo.AssertNotCalled(t, "Create")
}

func TestAppealService_Create_ForeignSolution(t *testing.T) {
	// Arrange
	appealRepo := new(MockAppealRepository)
	solutionRepo := new(MockSolutionRepository)

	foreign := &entity.Solution{ID: 10, UserID: 2, Status: entity.SolutionStatusRejected}
	solutionRepo.On("GetByID", uint(10)).Return(foreign, nil)

	svc := newTestAppealService(t, appealRepo, solutionRepo, new(MockReviewRepository), new(MockUserRepository), nil)

	// Act
	appeal, err := svc.Create(1, 10, "Прошу пересмотреть вердикт: тесты проходят локально")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Nil(t, appeal)
	appealRepo.AssertNotCalled(t, "Create")
}

func TestAppealService_Create_PendingSolution(t *testing.T) {
	// Arrange: апеллировать можно только отклоненное решение
	appealRepo := new(MockAppealRepository)
	solutionRepo := new(MockSolutionRepository)

	pending := &entity.Solution{ID: 10, UserID: 1, Status: entity.SolutionStatusPending}
	solutionRepo.On("GetByID", uint(10)).Return(pending, nil)

	svc := newTestAppealService(t, appealRepo, solutionRepo, new(MockReviewRepository), new(MockUserRepository), nil)

	// Act
	appeal, err := svc.Create(1, 10, "Прошу пересмотреть вердикт: тесты проходят локально")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, appeal)
	appealRepo.AssertNotCalled(t, "Create")
}

// ============================================================================
// Очередь разбора
// ============================================================================

func TestAppealService_ListPending_FIFOWithReviews(t *testing.T) {
	// Arrange
	appealRepo := new(MockAppealRepository)
	reviewRepo := new(MockReviewRepository)

	older := entity.Appeal{ID: 1, SolutionID: 10, UserID: 1, Status: entity.AppealStatusPending, CreatedAt: time.Now().Add(-2 * time.Hour)}
	newer := entity.Appeal{ID: 2, SolutionID: 20, UserID: 2, Status: entity.AppealStatusPending, CreatedAt: time.Now().Add(-1 * time.Hour)}
	appealRepo.On("ListPending").Return([]entity.Appeal{older, newer}, nil)

	reviewRepo.On("ListBySolution", uint(10)).Return([]entity.Review{{ID: 100, SolutionID: 10, Verdict: entity.ReviewVerdictRejected}}, nil)
	reviewRepo.On("ListBySolution", uint(20)).Return([]entity.Review{}, nil)

	svc := newTestAppealService(t, appealRepo, new(MockSolutionRepository), reviewRepo, new(MockUserRepository), nil)

	// Act
	queue, err := svc.ListPending()

	// Assert: порядок репозитория (oldest-first) сохраняется, ревью подтянуты
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, uint(1), queue[0].Appeal.ID)
	assert.Equal(t, uint(2), queue[1].Appeal.ID)
	assert.Len(t, queue[0].Reviews, 1)
	assert.Empty(t, queue[1].Reviews)
	reviewRepo.AssertExpectations(t)
}

// ============================================================================
// Разбор апелляции
// ============================================================================

func TestAppealService_Resolve_Approved_AppliesEconomy(t *testing.T) {
	// Arrange: автор с балансом 3, ревьюеры A (баланс 0) и B (баланс 2).
	// Одобрение: автору +5, каждому ревьюеру -1 (списание клампится в БД).
	appealRepo := new(MockAppealRepository)
	solutionRepo := new(MockSolutionRepository)
	userRepo := new(MockUserRepository)
	cacheRepo := new(MockCacheRepository)

	appeal := &entity.Appeal{ID: 7, SolutionID: 10, UserID: 1, Status: entity.AppealStatusPending}
	appealRepo.On("GetByID", uint(7)).Return(appeal, nil)
	appealRepo.On("Resolve", uint(7), entity.AppealStatusApproved, uint(99), "вердикт пересмотрен", mock.AnythingOfType("time.Time")).Return(nil)

	solutionRepo.On("UpdateStatus", uint(10), entity.SolutionStatusAccepted).Return(nil)
	userRepo.On("AdjustBalance", uint(1), 5).Return(nil)
	userRepo.On("AdjustBalance", uint(2), -1).Return(nil)
	userRepo.On("AdjustBalance", uint(3), -1).Return(nil)
	cacheRepo.On("Delete", cacheKeyPendingAppeals).Return(nil)

	svc := newTestAppealService(t, appealRepo, solutionRepo, new(MockReviewRepository), userRepo, cacheRepo)

	// Act
	resolved, err := svc.Resolve(context.Background(), 7, entity.AppealStatusApproved, "вердикт пересмотрен", []uint{2, 3}, 99)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, entity.AppealStatusApproved, resolved.Status)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, uint(99), *resolved.ResolvedBy)
	appealRepo.AssertExpectations(t)
	solutionRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

// recordingEmailService фиксирует отправленные письма для проверок
type recordingEmailService struct {
	sent []recordedEmail
}

type recordedEmail struct {
	to        string
	taskTitle string
	decision  string
}

func (s *recordingEmailService) SendAppealResolved(ctx context.Context, toEmail, taskTitle, decision, comment string) error {
	s.sent = append(s.sent, recordedEmail{to: toEmail, taskTitle: taskTitle, decision: decision})
	return nil
}

func TestAppealService_Resolve_EmailsAuthor(t *testing.T) {
	// Arrange: репозиторий отдает апелляцию с автором и задачей —
	// письмо автору строится именно из этих связей
	appealRepo := new(MockAppealRepository)
	solutionRepo := new(MockSolutionRepository)
	userRepo := new(MockUserRepository)

	appeal := &entity.Appeal{
		ID:         7,
		SolutionID: 10,
		UserID:     1,
		Status:     entity.AppealStatusPending,
		User:       &entity.User{ID: 1, Email: "author@example.com"},
		Solution: &entity.Solution{
			ID:     10,
			UserID: 1,
			TaskID: 3,
			Status: entity.SolutionStatusRejected,
			Task:   &entity.Task{ID: 3, Title: "Сумма двух чисел"},
		},
	}
	appealRepo.On("GetByID", uint(7)).Return(appeal, nil)
	appealRepo.On("Resolve", uint(7), entity.AppealStatusApproved, uint(99), "вердикт пересмотрен", mock.AnythingOfType("time.Time")).Return(nil)
	solutionRepo.On("UpdateStatus", uint(10), entity.SolutionStatusAccepted).Return(nil)
	userRepo.On("AdjustBalance", uint(1), 5).Return(nil)

	emails := &recordingEmailService{}
	svc, err := NewAppealService(appealRepo, solutionRepo, new(MockReviewRepository), userRepo, nil, nil, emails, nil, defaultArbiterConfig())
	require.NoError(t, err)

	// Act
	_, err = svc.Resolve(context.Background(), 7, entity.AppealStatusApproved, "вердикт пересмотрен", nil, 99)

	// Assert: письмо ушло на адрес автора с названием задачи
	require.NoError(t, err)
	require.Len(t, emails.sent, 1)
	assert.Equal(t, "author@example.com", emails.sent[0].to)
	assert.Equal(t, "Сумма двух чисел", emails.sent[0].taskTitle)
	assert.Equal(t, entity.AppealStatusApproved, emails.sent[0].decision)
}

func TestAppealService_Resolve_Rejected_NoSideEffects(t *testing.T) {
	// Arrange
	appealRepo := new(MockAppealRepository)
	solutionRepo := new(MockSolutionRepository)
	userRepo := new(MockUserRepository)
	cacheRepo := new(MockCacheRepository)

	appeal := &entity.Appeal{ID: 7, SolutionID: 10, UserID: 1, Status: entity.AppealStatusPending}
	appealRepo.On("GetByID", uint(7)).Return(appeal, nil)
	appealRepo.On("Resolve", uint(7), entity.AppealStatusRejected, uint(99), "вердикт в силе", mock.AnythingOfType("time.Time")).Return(nil)
	cacheRepo.On("Delete", cacheKeyPendingAppeals).Return(nil)

	svc := newTestAppealService(t, appealRepo, solutionRepo, new(MockReviewRepository), userRepo, cacheRepo)

	// Act
	resolved, err := svc.Resolve(context.Background(), 7, entity.AppealStatusRejected, "вердикт в силе", []uint{2, 3}, 99)

	// Assert: отклонение не трогает ни балансы, ни статус решения
	require.NoError(t, err)
	assert.Equal(t, entity.AppealStatusRejected, resolved.Status)
	solutionRepo.AssertNotCalled(t, "UpdateStatus")
	userRepo.AssertNotCalled(t, "AdjustBalance")
}

func TestAppealService_Resolve_AlreadyResolved(t *testing.T) {
	// Arrange: репозиторий отвечает конфликтом на повторный разбор
	appealRepo := new(MockAppealRepository)
	solutionRepo := new(MockSolutionRepository)
	userRepo := new(MockUserRepository)

	already := &entity.Appeal{ID: 7, SolutionID: 10, UserID: 1, Status: entity.AppealStatusApproved}
	appealRepo.On("GetByID", uint(7)).Return(already, nil)
	appealRepo.On("Resolve", uint(7), entity.AppealStatusRejected, uint(99), "", mock.AnythingOfType("time.Time")).Return(apperrors.ErrConflict)

	svc := newTestAppealService(t, appealRepo, solutionRepo, new(MockReviewRepository), userRepo, nil)

	// Act
	resolved, err := svc.Resolve(context.Background(), 7, entity.AppealStatusRejected, "", nil, 99)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Nil(t, resolved)
	solutionRepo.AssertNotCalled(t, "UpdateStatus")
	userRepo.AssertNotCalled(t, "AdjustBalance")
}

func TestAppealService_Resolve_InvalidDecision(t *testing.T) {
	// Arrange
	appealRepo := new(MockAppealRepository)

	svc := newTestAppealService(t, appealRepo, new(MockSolutionRepository), new(MockReviewRepository), new(MockUserRepository), nil)

	// Act
	resolved, err := svc.Resolve(context.Background(), 7, "maybe", "", nil, 99)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, resolved)
	appealRepo.AssertNotCalled(t, "GetByID")
	appealRepo.AssertNotCalled(t, "Resolve")
}

func TestAppealService_Resolve_ApprovedEffectAborts(t *testing.T) {
	// Arrange: ошибка на начислении автору прерывает оставшиеся шаги,
	// штрафы ревьюерам не применяются
	appealRepo := new(MockAppealRepository)
	solutionRepo := new(MockSolutionRepository)
	userRepo := new(MockUserRepository)

	appeal := &entity.Appeal{ID: 7, SolutionID: 10, UserID: 1, Status: entity.AppealStatusPending}
	appealRepo.On("GetByID", uint(7)).Return(appeal, nil)
	appealRepo.On("Resolve", uint(7), entity.AppealStatusApproved, uint(99), "", mock.AnythingOfType("time.Time")).Return(nil)
	solutionRepo.On("UpdateStatus", uint(10), entity.SolutionStatusAccepted).Return(nil)
	userRepo.On("AdjustBalance", uint(1), 5).Return(errors.New("db down"))

	svc := newTestAppealService(t, appealRepo, solutionRepo, new(MockReviewRepository), userRepo, nil)

	// Act
	resolved, err := svc.Resolve(context.Background(), 7, entity.AppealStatusApproved, "", []uint{2, 3}, 99)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, resolved)
	userRepo.AssertNotCalled(t, "AdjustBalance", uint(2), -1)
	userRepo.AssertNotCalled(t, "AdjustBalance", uint(3), -1)
}

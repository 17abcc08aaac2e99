package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/codereview-api/internal/domain/entity"
	"github.com/yourusername/codereview-api/internal/domain/repository"
)

// MockTaskRepository реализует repository.TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(task *entity.Task) error {
	args := m.Called(task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(id uint) (*entity.Task, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Task), args.Error(1)
}

func (m *MockTaskRepository) ListWithFilters(filters repository.TaskFilters, limit, offset int) ([]entity.Task, int64, error) {
	args := m.Called(filters, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Task), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) IncrementCompletions(taskID uint) error {
	args := m.Called(taskID)
	return args.Error(0)
}

func newTestReviewService(t *testing.T, reviewRepo *MockReviewRepository, solutionRepo *MockSolutionRepository, userRepo *MockUserRepository, taskRepo *MockTaskRepository) *ReviewService {
	t.Helper()
	svc, err := NewReviewService(reviewRepo, solutionRepo, userRepo, taskRepo, nil, nil, defaultArbiterConfig())
	require.NoError(t, err)
	return svc
}

func TestReviewService_Submit_OwnSolution(t *testing.T) {
	// Arrange
	reviewRepo := new(MockReviewRepository)
	solutionRepo := new(MockSolutionRepository)

	own := &entity.Solution{ID: 10, UserID: 5, Status: entity.SolutionStatusPending}
	solutionRepo.On("GetByID", uint(10)).Return(own, nil)

	svc := newTestReviewService(t, reviewRepo, solutionRepo, new(MockUserRepository), new(MockTaskRepository))

	// Act
	review, err := svc.Submit(5, 10, entity.ReviewVerdictAccepted, "выглядит хорошо")

	// Assert
	assert.ErrorIs(t, err, ErrOwnSolution)
	assert.Nil(t, review)
	reviewRepo.AssertNotCalled(t, "Create")
}

func TestReviewService_Submit_Duplicate(t *testing.T) {
	// Arrange
	reviewRepo := new(MockReviewRepository)
	solutionRepo := new(MockSolutionRepository)

	solution := &entity.Solution{ID: 10, UserID: 1, Status: entity.SolutionStatusPending}
	solutionRepo.On("GetByID", uint(10)).Return(solution, nil)
	reviewRepo.On("ExistsForReviewer", uint(10), uint(5)).Return(true, nil)

	svc := newTestReviewService(t, reviewRepo, solutionRepo, new(MockUserRepository), new(MockTaskRepository))

	// Act
	review, err := svc.Submit(5, 10, entity.ReviewVerdictAccepted, "")

	// Assert
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
	assert.Nil(t, review)
	reviewRepo.AssertNotCalled(t, "Create")
}

func TestReviewService_Submit_DecidedSolution(t *testing.T) {
	// Arrange
	reviewRepo := new(MockReviewRepository)
	solutionRepo := new(MockSolutionRepository)

	decided := &entity.Solution{ID: 10, UserID: 1, Status: entity.SolutionStatusAccepted}
	solutionRepo.On("GetByID", uint(10)).Return(decided, nil)

	svc := newTestReviewService(t, reviewRepo, solutionRepo, new(MockUserRepository), new(MockTaskRepository))

	// Act
	review, err := svc.Submit(5, 10, entity.ReviewVerdictRejected, "")

	// Assert
	assert.ErrorIs(t, err, ErrSolutionDecided)
	assert.Nil(t, review)
}

func TestReviewService_Submit_RewardsReviewer(t *testing.T) {
	// Arrange: до порога большинства еще далеко, но кредит и прогресс
	// начисляются за само ревью
	reviewRepo := new(MockReviewRepository)
	solutionRepo := new(MockSolutionRepository)
	userRepo := new(MockUserRepository)

	solution := &entity.Solution{ID: 10, UserID: 1, TaskID: 3, Status: entity.SolutionStatusPending}
	reviewer := &entity.User{ID: 5, Level: entity.LevelReviewer}

	solutionRepo.On("GetByID", uint(10)).Return(solution, nil)
	reviewRepo.On("ExistsForReviewer", uint(10), uint(5)).Return(false, nil)
	userRepo.On("GetByID", uint(5)).Return(reviewer, nil)
	reviewRepo.On("Create", mock.AnythingOfType("*entity.Review")).Return(nil)
	userRepo.On("AdjustBalance", uint(5), 1).Return(nil)
	userRepo.On("RegisterCompletedReview", uint(5), TrustRewardPerReview).Return(nil)
	reviewRepo.On("TallyVerdicts", uint(10)).Return(&repository.VerdictTally{Accepted: 1, Rejected: 0, Total: 1}, nil)

	svc := newTestReviewService(t, reviewRepo, solutionRepo, userRepo, new(MockTaskRepository))

	// Act
	review, err := svc.Submit(5, 10, entity.ReviewVerdictAccepted, "аккуратное решение")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, 1, review.Weight)
	userRepo.AssertExpectations(t)
	// Порог не набран: статус решения не меняется
	solutionRepo.AssertNotCalled(t, "UpdateStatus")
}

func TestReviewService_Submit_ExpertWeight(t *testing.T) {
	// Arrange
	reviewRepo := new(MockReviewRepository)
	solutionRepo := new(MockSolutionRepository)
	userRepo := new(MockUserRepository)

	solution := &entity.Solution{ID: 10, UserID: 1, Status: entity.SolutionStatusPending}
	expert := &entity.User{ID: 5, Level: entity.LevelExpert}

	solutionRepo.On("GetByID", uint(10)).Return(solution, nil)
	reviewRepo.On("ExistsForReviewer", uint(10), uint(5)).Return(false, nil)
	userRepo.On("GetByID", uint(5)).Return(expert, nil)
	reviewRepo.On("Create", mock.AnythingOfType("*entity.Review")).Return(nil)
	userRepo.On("AdjustBalance", uint(5), 1).Return(nil)
	userRepo.On("RegisterCompletedReview", uint(5), TrustRewardPerReview).Return(nil)
	reviewRepo.On("TallyVerdicts", uint(10)).Return(&repository.VerdictTally{Accepted: 2, Rejected: 0, Total: 2}, nil)

	svc := newTestReviewService(t, reviewRepo, solutionRepo, userRepo, new(MockTaskRepository))

	// Act
	review, err := svc.Submit(5, 10, entity.ReviewVerdictAccepted, "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, review.Weight)
}

func TestReviewService_Submit_MajorityAccepts(t *testing.T) {
	// Arrange: третье ревью добирает порог, большинство за принятие
	reviewRepo := new(MockReviewRepository)
	solutionRepo := new(MockSolutionRepository)
	userRepo := new(MockUserRepository)
	taskRepo := new(MockTaskRepository)

	solution := &entity.Solution{ID: 10, UserID: 1, TaskID: 3, Status: entity.SolutionStatusPending}
	reviewer := &entity.User{ID: 5, Level: entity.LevelBeginner}

	solutionRepo.On("GetByID", uint(10)).Return(solution, nil)
	reviewRepo.On("ExistsForReviewer", uint(10), uint(5)).Return(false, nil)
	userRepo.On("GetByID", uint(5)).Return(reviewer, nil)
	reviewRepo.On("Create", mock.AnythingOfType("*entity.Review")).Return(nil)
	userRepo.On("AdjustBalance", uint(5), 1).Return(nil)
	userRepo.On("RegisterCompletedReview", uint(5), TrustRewardPerReview).Return(nil)
	reviewRepo.On("TallyVerdicts", uint(10)).Return(&repository.VerdictTally{Accepted: 2, Rejected: 1, Total: 3}, nil)
	solutionRepo.On("UpdateStatus", uint(10), entity.SolutionStatusAccepted).Return(nil)
	taskRepo.On("IncrementCompletions", uint(3)).Return(nil)
	userRepo.On("IncrementStreak", uint(1)).Return(nil)

	svc := newTestReviewService(t, reviewRepo, solutionRepo, userRepo, taskRepo)

	// Act
	_, err := svc.Submit(5, 10, entity.ReviewVerdictAccepted, "")

	// Assert
	require.NoError(t, err)
	solutionRepo.AssertExpectations(t)
	taskRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestReviewService_Submit_MajorityRejects(t *testing.T) {
	// Arrange
	reviewRepo := new(MockReviewRepository)
	solutionRepo := new(MockSolutionRepository)
	userRepo := new(MockUserRepository)
	taskRepo := new(MockTaskRepository)

	solution := &entity.Solution{ID: 10, UserID: 1, TaskID: 3, Status: entity.SolutionStatusPending}
	reviewer := &entity.User{ID: 5, Level: entity.LevelBeginner}

	solutionRepo.On("GetByID", uint(10)).Return(solution, nil)
	reviewRepo.On("ExistsForReviewer", uint(10), uint(5)).Return(false, nil)
	userRepo.On("GetByID", uint(5)).Return(reviewer, nil)
	reviewRepo.On("Create", mock.AnythingOfType("*entity.Review")).Return(nil)
	userRepo.On("AdjustBalance", uint(5), 1).Return(nil)
	userRepo.On("RegisterCompletedReview", uint(5), TrustRewardPerReview).Return(nil)
	reviewRepo.On("TallyVerdicts", uint(10)).Return(&repository.VerdictTally{Accepted: 1, Rejected: 2, Total: 3}, nil)
	solutionRepo.On("UpdateStatus", uint(10), entity.SolutionStatusRejected).Return(nil)
	userRepo.On("ResetStreak", uint(1)).Return(nil)

	svc := newTestReviewService(t, reviewRepo, solutionRepo, userRepo, taskRepo)

	// Act
	_, err := svc.Submit(5, 10, entity.ReviewVerdictRejected, "не проходит крайние случаи")

	// Assert
	require.NoError(t, err)
	solutionRepo.AssertExpectations(t)
	// Отклонение не засчитывается как завершение задачи
	taskRepo.AssertNotCalled(t, "IncrementCompletions")
}

package service

import (
	"fmt"
	"log"
	"strconv"

	"github.com/yourusername/codereview-api/internal/config"
	"github.com/yourusername/codereview-api/internal/domain/entity"
	"github.com/yourusername/codereview-api/internal/domain/repository"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
	ws "github.com/yourusername/codereview-api/internal/websocket"
)

// TrustRewardPerReview - прирост trust_rating за каждое завершенное ревью
const TrustRewardPerReview = 0.5

// ReviewService принимает ревью и выносит вердикт по решению
// при наборе взвешенного большинства
type ReviewService struct {
	reviewRepo      repository.ReviewRepository
	solutionRepo    repository.SolutionRepository
	userRepo        repository.UserRepository
	taskRepo        repository.TaskRepository
	notificationSvc *NotificationService
	wsManager       *ws.Manager
	arbiterConfig   config.ArbiterConfig
}

// NewReviewService создает новый сервис ревью
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	solutionRepo repository.SolutionRepository,
	userRepo repository.UserRepository,
	taskRepo repository.TaskRepository,
	notificationSvc *NotificationService,
	wsManager *ws.Manager,
	arbiterConfig config.ArbiterConfig,
) (*ReviewService, error) {
	if reviewRepo == nil || solutionRepo == nil || userRepo == nil || taskRepo == nil {
		return nil, fmt.Errorf("ReviewService requires review, solution, user and task repositories")
	}
	return &ReviewService{
		reviewRepo:      reviewRepo,
		solutionRepo:    solutionRepo,
		userRepo:        userRepo,
		taskRepo:        taskRepo,
		notificationSvc: notificationSvc,
		wsManager:       wsManager,
		arbiterConfig:   arbiterConfig,
	}, nil
}

// Submit принимает ревью на чужое pending-решение.
// Вес ревью определяется уровнем ревьюера: expert считается за 2 голоса.
// Когда взвешенная сумма голосов достигает порога, решение переводится
// в accepted или rejected по большинству.
func (s *ReviewService) Submit(reviewerID, solutionID uint, verdict, comment string) (*entity.Review, error) {
	if !entity.ValidVerdict(verdict) {
		return nil, fmt.Errorf("%w: verdict must be %q or %q", apperrors.ErrValidation, entity.ReviewVerdictAccepted, entity.ReviewVerdictRejected)
	}

	solution, err := s.solutionRepo.GetByID(solutionID)
	if err != nil {
		return nil, err
	}
	if solution.UserID == reviewerID {
		return nil, ErrOwnSolution
	}
	if solution.IsDecided() {
		return nil, ErrSolutionDecided
	}

	exists, err := s.reviewRepo.ExistsForReviewer(solutionID, reviewerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	reviewer, err := s.userRepo.GetByID(reviewerID)
	if err != nil {
		return nil, err
	}

	review := &entity.Review{
		SolutionID: solutionID,
		ReviewerID: reviewerID,
		Verdict:    verdict,
		Comment:    comment,
		Weight:     reviewWeight(reviewer.Level),
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	// Ревьюер зарабатывает кредит и прогресс независимо от судьбы решения
	if err := s.userRepo.AdjustBalance(reviewerID, 1); err != nil {
		log.Printf("[ReviewService.Submit] Не удалось начислить кредит ревьюеру ID=%d: %v", reviewerID, err)
	}
	if err := s.userRepo.RegisterCompletedReview(reviewerID, TrustRewardPerReview); err != nil {
		log.Printf("[ReviewService.Submit] Не удалось обновить прогресс ревьюера ID=%d: %v", reviewerID, err)
	}

	s.maybeDecide(solution)
	s.pushReviewEvent(solution, review)

	log.Printf("[ReviewService.Submit] Ревью ID=%d: reviewer=%d solution=%d verdict=%s weight=%d", review.ID, reviewerID, solutionID, verdict, review.Weight)
	return review, nil
}

// ListBySolution возвращает ревью решения с профилями ревьюеров
func (s *ReviewService) ListBySolution(solutionID uint) ([]entity.Review, error) {
	return s.reviewRepo.ListBySolution(solutionID)
}

// maybeDecide подводит итог по решению, если набран порог взвешенных голосов
func (s *ReviewService) maybeDecide(solution *entity.Solution) {
	tally, err := s.reviewRepo.TallyVerdicts(solution.ID)
	if err != nil {
		log.Printf("[ReviewService.maybeDecide] Не удалось подсчитать вердикты solution=%d: %v", solution.ID, err)
		return
	}
	if tally.Total < s.arbiterConfig.ReviewsToDecide {
		return
	}

	status := entity.SolutionStatusRejected
	if tally.Accepted > tally.Rejected {
		status = entity.SolutionStatusAccepted
	}

	if err := s.solutionRepo.UpdateStatus(solution.ID, status); err != nil {
		log.Printf("[ReviewService.maybeDecide] Не удалось обновить статус solution=%d: %v", solution.ID, err)
		return
	}
	log.Printf("[ReviewService.maybeDecide] Решение ID=%d: %s (accepted=%d rejected=%d)", solution.ID, status, tally.Accepted, tally.Rejected)

	if status == entity.SolutionStatusAccepted {
		if err := s.taskRepo.IncrementCompletions(solution.TaskID); err != nil {
			log.Printf("[ReviewService.maybeDecide] Не удалось увеличить счетчик задачи ID=%d: %v", solution.TaskID, err)
		}
		if err := s.userRepo.IncrementStreak(solution.UserID); err != nil {
			log.Printf("[ReviewService.maybeDecide] Не удалось увеличить серию user=%d: %v", solution.UserID, err)
		}
	} else {
		if err := s.userRepo.ResetStreak(solution.UserID); err != nil {
			log.Printf("[ReviewService.maybeDecide] Не удалось сбросить серию user=%d: %v", solution.UserID, err)
		}
	}

	if s.notificationSvc != nil {
		title := "Решение отклонено"
		message := "Ревьюеры отклонили ваше решение. Вы можете исправить его и отправить снова или подать апелляцию."
		if status == entity.SolutionStatusAccepted {
			title = "Решение принято"
			message = "Ревьюеры приняли ваше решение. Поздравляем!"
		}
		if _, err := s.notificationSvc.NotifyUser(solution.UserID, title, message, entity.NotificationTypeSolution); err != nil {
			log.Printf("[ReviewService.maybeDecide] Не удалось создать уведомление user=%d: %v", solution.UserID, err)
		}
	}

	if s.wsManager != nil {
		payload := map[string]interface{}{
			"solution_id": solution.ID,
			"task_id":     solution.TaskID,
			"status":      status,
		}
		if err := s.wsManager.SendEventToUser(strconv.FormatUint(uint64(solution.UserID), 10), ws.EventSolutionStatus, payload); err != nil {
			log.Printf("[ReviewService.maybeDecide] Не удалось отправить событие user=%d: %v", solution.UserID, err)
		}
	}
}

// pushReviewEvent доставляет автору решения событие о новом ревью
func (s *ReviewService) pushReviewEvent(solution *entity.Solution, review *entity.Review) {
	if s.wsManager == nil {
		return
	}
	payload := map[string]interface{}{
		"review_id":   review.ID,
		"solution_id": solution.ID,
		"verdict":     review.Verdict,
	}
	if err := s.wsManager.SendEventToUser(strconv.FormatUint(uint64(solution.UserID), 10), ws.EventReviewNew, payload); err != nil {
		log.Printf("[ReviewService.pushReviewEvent] Не удалось отправить событие user=%d: %v", solution.UserID, err)
	}
}

// reviewWeight возвращает вес голоса ревьюера по его уровню
func reviewWeight(level string) int {
	if level == entity.LevelExpert {
		return 2
	}
	return 1
}

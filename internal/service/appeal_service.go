package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/codereview-api/internal/config"
	"github.com/yourusername/codereview-api/internal/domain/entity"
	"github.com/yourusername/codereview-api/internal/domain/repository"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
	ws "github.com/yourusername/codereview-api/internal/websocket"
)

const (
	cacheKeyPendingAppeals = "appeals:pending"
	pendingAppealsCacheTTL = 30 * time.Second
)

// AppealWithReviews объединяет апелляцию с ревью ее решения
// для административной очереди разбора
type AppealWithReviews struct {
	Appeal  entity.Appeal   `json:"appeal"`
	Reviews []entity.Review `json:"reviews"`
}

// AppealService реализует подачу и разбор апелляций на результаты ревью
type AppealService struct {
	appealRepo      repository.AppealRepository
	solutionRepo    repository.SolutionRepository
	reviewRepo      repository.ReviewRepository
	userRepo        repository.UserRepository
	cacheRepo       repository.CacheRepository
	notificationSvc *NotificationService
	emailService    EmailService
	wsManager       *ws.Manager
	arbiterConfig   config.ArbiterConfig
}

// NewAppealService создает новый сервис апелляций
func NewAppealService(
	appealRepo repository.AppealRepository,
	solutionRepo repository.SolutionRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	notificationSvc *NotificationService,
	emailService EmailService,
	wsManager *ws.Manager,
	arbiterConfig config.ArbiterConfig,
) (*AppealService, error) {
	if appealRepo == nil || solutionRepo == nil || reviewRepo == nil || userRepo == nil {
		return nil, fmt.Errorf("AppealService requires appeal, solution, review and user repositories")
	}
	if emailService == nil {
		emailService = &NoopEmailService{}
	}
	return &AppealService{
		appealRepo:      appealRepo,
		solutionRepo:    solutionRepo,
		reviewRepo:      reviewRepo,
		userRepo:        userRepo,
		cacheRepo:       cacheRepo,
		notificationSvc: notificationSvc,
		emailService:    emailService,
		wsManager:       wsManager,
		arbiterConfig:   arbiterConfig,
	}, nil
}

// Create подает апелляцию на отклоненное решение.
// Причина валидируется до любой записи в БД. Повторная апелляция той же пары
// (user, solution) отклоняется опережающей проверкой, а при гонке —
// уникальным индексом idx_appeals_user_solution.
func (s *AppealService) Create(userID, solutionID uint, reason string) (*entity.Appeal, error) {
	if !entity.ValidAppealReason(reason) {
		return nil, fmt.Errorf("%w: appeal reason must contain at least %d characters", apperrors.ErrValidation, entity.MinAppealReasonLen)
	}

	solution, err := s.solutionRepo.GetByID(solutionID)
	if err != nil {
		return nil, err
	}
	if solution.UserID != userID {
		return nil, fmt.Errorf("%w: appeals are allowed only on own solutions", apperrors.ErrForbidden)
	}
	if solution.Status != entity.SolutionStatusRejected {
		return nil, fmt.Errorf("%w: only rejected solutions can be appealed", apperrors.ErrValidation)
	}

	exists, err := s.appealRepo.ExistsForUserSolution(userID, solutionID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: appeal for this solution already exists", apperrors.ErrConflict)
	}

	appeal := &entity.Appeal{
		SolutionID: solutionID,
		UserID:     userID,
		Reason:     strings.TrimSpace(reason),
		Status:     entity.AppealStatusPending,
	}
	if err := s.appealRepo.Create(appeal); err != nil {
		return nil, err
	}

	s.invalidatePendingCache()
	log.Printf("[AppealService.Create] Подана апелляция ID=%d user=%d solution=%d", appeal.ID, userID, solutionID)
	return appeal, nil
}

// ListPending возвращает очередь pending-апелляций для администратора:
// строго oldest-first, каждая с полным набором ревью ее решения
func (s *AppealService) ListPending() ([]AppealWithReviews, error) {
	if s.cacheRepo != nil {
		var cached []AppealWithReviews
		if err := s.cacheRepo.GetJSON(cacheKeyPendingAppeals, &cached); err == nil {
			return cached, nil
		}
	}

	appeals, err := s.appealRepo.ListPending()
	if err != nil {
		return nil, err
	}

	result := make([]AppealWithReviews, 0, len(appeals))
	for _, appeal := range appeals {
		reviews, err := s.reviewRepo.ListBySolution(appeal.SolutionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load reviews for solution %d: %w", appeal.SolutionID, err)
		}
		result = append(result, AppealWithReviews{Appeal: appeal, Reviews: reviews})
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(cacheKeyPendingAppeals, result, pendingAppealsCacheTTL); err != nil {
			log.Printf("[AppealService.ListPending] Не удалось закешировать очередь апелляций: %v", err)
		}
	}
	return result, nil
}

// ListByUser возвращает апелляции пользователя, новые первыми
func (s *AppealService) ListByUser(userID uint) ([]entity.Appeal, error) {
	return s.appealRepo.ListByUser(userID)
}

// ListResolved возвращает разрешенные апелляции для административного экспорта
func (s *AppealService) ListResolved() ([]entity.Appeal, error) {
	return s.appealRepo.ListResolved()
}

// Resolve разбирает апелляцию от лица администратора resolverID.
//
// Порядок эффектов фиксирован:
//  1. Апелляция переводится в approved/rejected безусловно. Разрешенная
//     апелляция неизменяема: повторный вызов получает ErrConflict из репозитория.
//  2. Только при approved: решение принудительно становится accepted,
//     автор получает +N кредитов, каждый ревьюер из penalizedReviewerIDs
//     списывается на штраф с нижней границей 0 (атомарно на стороне БД).
//  3. При rejected никакие балансы и статусы не трогаются.
//
// Шаги выполняются последовательно без отката: первая ошибка прерывает
// оставшиеся шаги, уже примененные эффекты сохраняются.
func (s *AppealService) Resolve(ctx context.Context, appealID uint, decision, comment string, penalizedReviewerIDs []uint, resolverID uint) (*entity.Appeal, error) {
	if !entity.ValidAppealDecision(decision) {
		return nil, fmt.Errorf("%w: decision must be %q or %q", apperrors.ErrValidation, entity.AppealStatusApproved, entity.AppealStatusRejected)
	}

	appeal, err := s.appealRepo.GetByID(appealID)
	if err != nil {
		return nil, err
	}

	resolvedAt := time.Now()
	if err := s.appealRepo.Resolve(appealID, decision, resolverID, comment, resolvedAt); err != nil {
		return nil, err
	}

	if decision == entity.AppealStatusApproved {
		if err := s.applyApprovedEffects(appeal, penalizedReviewerIDs); err != nil {
			log.Printf("[AppealService.Resolve] Апелляция ID=%d переведена в approved, но эффекты применены не полностью: %v", appealID, err)
			return nil, err
		}
	}

	s.invalidatePendingCache()
	s.notifyResolved(ctx, appeal, decision, comment)

	appeal.Status = decision
	appeal.ResolvedBy = &resolverID
	appeal.ResolutionComment = comment
	appeal.ResolvedAt = &resolvedAt

	log.Printf("[AppealService.Resolve] Апелляция ID=%d разрешена: %s (resolver=%d, penalized=%d)", appealID, decision, resolverID, len(penalizedReviewerIDs))
	return appeal, nil
}

// applyApprovedEffects применяет экономические последствия одобрения апелляции
func (s *AppealService) applyApprovedEffects(appeal *entity.Appeal, penalizedReviewerIDs []uint) error {
	if err := s.solutionRepo.UpdateStatus(appeal.SolutionID, entity.SolutionStatusAccepted); err != nil {
		return fmt.Errorf("force-accept solution %d: %w", appeal.SolutionID, err)
	}

	if err := s.userRepo.AdjustBalance(appeal.UserID, s.arbiterConfig.ApprovedReward); err != nil {
		return fmt.Errorf("credit appeal author %d: %w", appeal.UserID, err)
	}

	for _, reviewerID := range penalizedReviewerIDs {
		if err := s.userRepo.AdjustBalance(reviewerID, -s.arbiterConfig.ReviewerPenalty); err != nil {
			return fmt.Errorf("penalize reviewer %d: %w", reviewerID, err)
		}
	}
	return nil
}

// notifyResolved рассылает автору апелляции уведомление, WebSocket-событие
// и (опционально) письмо. Ошибки доставки только логируются.
func (s *AppealService) notifyResolved(ctx context.Context, appeal *entity.Appeal, decision, comment string) {
	taskTitle := ""
	if appeal.Solution != nil && appeal.Solution.Task != nil {
		taskTitle = appeal.Solution.Task.Title
	}

	if s.notificationSvc != nil {
		title := "Апелляция отклонена"
		message := "Администратор оставил вердикт ревьюеров в силе."
		if decision == entity.AppealStatusApproved {
			title = "Апелляция одобрена"
			message = "Решение засчитано, кредиты начислены."
		}
		if comment != "" {
			message = message + " Комментарий: " + comment
		}
		if _, err := s.notificationSvc.NotifyUser(appeal.UserID, title, message, entity.NotificationTypeAppeal); err != nil {
			log.Printf("[AppealService.notifyResolved] Не удалось создать уведомление для user=%d: %v", appeal.UserID, err)
		}
	}

	if s.wsManager != nil {
		payload := map[string]interface{}{
			"appeal_id":   appeal.ID,
			"solution_id": appeal.SolutionID,
			"decision":    decision,
			"comment":     comment,
		}
		if err := s.wsManager.SendEventToUser(strconv.FormatUint(uint64(appeal.UserID), 10), ws.EventAppealResolved, payload); err != nil {
			log.Printf("[AppealService.notifyResolved] Не удалось отправить WebSocket-событие user=%d: %v", appeal.UserID, err)
		}
	}

	if appeal.User != nil && appeal.User.Email != "" {
		if err := s.emailService.SendAppealResolved(ctx, appeal.User.Email, taskTitle, decision, comment); err != nil {
			log.Printf("[AppealService.notifyResolved] Не удалось отправить письмо user=%d: %v", appeal.UserID, err)
		}
	}
}

func (s *AppealService) invalidatePendingCache() {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(cacheKeyPendingAppeals); err != nil {
		log.Printf("[AppealService] Не удалось сбросить кеш очереди апелляций: %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/codereview-api/internal/config"
	"github.com/yourusername/codereview-api/internal/domain/repository"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
)

const (
	gameAttemptsKeyPrefix = "game:attempts:"
	gameQuestionKeyPrefix = "game:question:"

	// Время на ответ: по истечении вопрос сгорает вместе со ставкой
	gameQuestionTTL = 10 * time.Minute
)

// GameRound описывает начатый раунд мини-игры
type GameRound struct {
	Question          string `json:"question"`
	AttemptsRemaining int    `json:"attempts_remaining"`
	Balance           int    `json:"balance"`
}

// GameResult описывает итог раунда
type GameResult struct {
	Won      bool   `json:"won"`
	Judgment string `json:"judgment"`
	Reward   int    `json:"reward"`
}

// GameService реализует мини-игру на кредиты ревью: пользователь ставит
// кредит, получает вопрос от внешнего текстового сервиса и при верном
// ответе выигрывает удвоенную ставку. Попытки ограничены по дням.
type GameService struct {
	userRepo     repository.UserRepository
	cacheRepo    repository.CacheRepository
	judgeService JudgeService
	gameConfig   config.GameConfig
}

// NewGameService создает новый сервис мини-игры
func NewGameService(
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	judgeService JudgeService,
	gameConfig config.GameConfig,
) (*GameService, error) {
	if userRepo == nil || cacheRepo == nil {
		return nil, fmt.Errorf("GameService requires user repository and cache repository")
	}
	if judgeService == nil {
		judgeService = &NoopJudgeService{}
	}
	return &GameService{
		userRepo:     userRepo,
		cacheRepo:    cacheRepo,
		judgeService: judgeService,
		gameConfig:   gameConfig,
	}, nil
}

// Start начинает раунд: проверяет баланс и дневной лимит, списывает ставку
// и выдает вопрос. Ставка списывается до обращения к внешнему сервису и
// не возвращается при его недоступности.
func (s *GameService) Start(ctx context.Context, userID uint, language string) (*GameRound, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user.ReviewBalance < s.gameConfig.WagerCost {
		return nil, ErrInsufficientBalance
	}

	attempts, err := s.attemptsToday(userID)
	if err != nil {
		return nil, err
	}
	if attempts >= int64(s.gameConfig.DailyAttempts) {
		return nil, ErrDailyLimitReached
	}

	if err := s.userRepo.AdjustBalance(userID, -s.gameConfig.WagerCost); err != nil {
		return nil, err
	}
	if err := s.registerAttempt(userID); err != nil {
		// Ставка уже списана: лимит в худшем случае посчитается заново завтра
		log.Printf("[GameService.Start] Не удалось зафиксировать попытку user=%d: %v", userID, err)
	}

	question, err := s.judgeService.FetchChallenge(ctx, language)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game challenge: %w", err)
	}

	if err := s.cacheRepo.Set(gameQuestionKeyPrefix+formatUserID(userID), question, gameQuestionTTL); err != nil {
		return nil, fmt.Errorf("failed to store active question: %w", err)
	}

	log.Printf("[GameService.Start] Раунд начат user=%d (попытка %d из %d)", userID, attempts+1, s.gameConfig.DailyAttempts)
	return &GameRound{
		Question:          question,
		AttemptsRemaining: s.gameConfig.DailyAttempts - int(attempts) - 1,
		Balance:           user.ReviewBalance - s.gameConfig.WagerCost,
	}, nil
}

// SubmitAnswer завершает раунд: ответ отправляется внешнему сервису на
// оценку, вердикт со словом "true" считается выигрышем
func (s *GameService) SubmitAnswer(ctx context.Context, userID uint, answer string) (*GameResult, error) {
	questionKey := gameQuestionKeyPrefix + formatUserID(userID)
	question, err := s.cacheRepo.Get(questionKey)
	if err != nil || question == "" {
		return nil, fmt.Errorf("no active game round for this user")
	}

	judgment, err := s.judgeService.JudgeAnswer(ctx, question, answer)
	if err != nil {
		return nil, fmt.Errorf("failed to judge answer: %w", err)
	}

	if err := s.cacheRepo.Delete(questionKey); err != nil {
		log.Printf("[GameService.SubmitAnswer] Не удалось удалить активный вопрос user=%d: %v", userID, err)
	}

	won := strings.Contains(strings.ToLower(judgment), "true")
	result := &GameResult{Won: won, Judgment: judgment}

	if won {
		result.Reward = s.gameConfig.WinReward
		if err := s.userRepo.AdjustBalance(userID, s.gameConfig.WinReward); err != nil {
			return nil, fmt.Errorf("failed to credit game reward: %w", err)
		}
	}

	log.Printf("[GameService.SubmitAnswer] Раунд завершен user=%d won=%v", userID, won)
	return result, nil
}

// AttemptsRemaining возвращает число оставшихся на сегодня попыток
func (s *GameService) AttemptsRemaining(userID uint) (int, error) {
	attempts, err := s.attemptsToday(userID)
	if err != nil {
		return 0, err
	}
	remaining := s.gameConfig.DailyAttempts - int(attempts)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// attemptsToday читает дневной счетчик попыток из Redis.
// Отсутствие ключа означает ноль попыток; ошибка Redis останавливает раунд,
// иначе дневной лимит обходился бы на время сбоя кеша.
func (s *GameService) attemptsToday(userID uint) (int64, error) {
	val, err := s.cacheRepo.Get(s.attemptsKey(userID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return 0, nil
		}
		log.Printf("[GameService.attemptsToday] Ошибка чтения счетчика попыток user=%d: %v", userID, err)
		return 0, err
	}
	var attempts int64
	if _, err := fmt.Sscanf(val, "%d", &attempts); err != nil {
		return 0, errors.New("corrupted game attempts counter")
	}
	return attempts, nil
}

// registerAttempt инкрементирует дневной счетчик и выставляет ему
// истечение на ближайшую полночь UTC
func (s *GameService) registerAttempt(userID uint) error {
	key := s.attemptsKey(userID)
	if _, err := s.cacheRepo.Increment(key); err != nil {
		return err
	}
	midnight := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	return s.cacheRepo.ExpireAt(key, midnight)
}

// attemptsKey формирует ключ счетчика попыток: game:attempts:<user>:<дата>
func (s *GameService) attemptsKey(userID uint) string {
	return fmt.Sprintf("%s%d:%s", gameAttemptsKeyPrefix, userID, time.Now().UTC().Format("2006-01-02"))
}

func formatUserID(userID uint) string {
	return fmt.Sprintf("%d", userID)
}

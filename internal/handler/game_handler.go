package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
	"github.com/yourusername/codereview-api/internal/service"
)

// GameHandler обрабатывает запросы мини-игры на кредиты ревью
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler создает новый обработчик мини-игры
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// StartGameRequest представляет запрос на начало раунда
type StartGameRequest struct {
	Language string `json:"language" binding:"omitempty,max=30"`
}

// StartGame начинает раунд: списывает ставку и выдает вопрос
// POST /api/game/start
func (h *GameHandler) StartGame(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	// Тело опционально: пустой запрос дает язык по умолчанию
	var req StartGameRequest
	_ = c.ShouldBindJSON(&req)
	if req.Language == "" {
		req.Language = "go"
	}

	round, err := h.gameService.Start(c.Request.Context(), userID, req.Language)
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, round)
}

// AnswerRequest представляет ответ на вопрос раунда
type AnswerRequest struct {
	Answer string `json:"answer" binding:"required,max=2000"`
}

// SubmitAnswer завершает раунд и начисляет выигрыш при верном ответе
// POST /api/game/answer
func (h *GameHandler) SubmitAnswer(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.gameService.SubmitAnswer(c.Request.Context(), userID, req.Answer)
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Attempts возвращает число оставшихся на сегодня попыток
// GET /api/game/attempts
func (h *GameHandler) Attempts(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	remaining, err := h.gameService.AttemptsRemaining(userID)
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempts_remaining": remaining})
}

// handleGameError обрабатывает ошибки сервиса мини-игры
func (h *GameHandler) handleGameError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInsufficientBalance):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDailyLimitReached):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("ERROR: Internal server error in GameHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

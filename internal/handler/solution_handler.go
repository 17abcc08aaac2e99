package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/codereview-api/internal/domain/repository"
	"github.com/yourusername/codereview-api/internal/handler/dto"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
	"github.com/yourusername/codereview-api/internal/service"
)

// SolutionHandler обрабатывает запросы, связанные с решениями и ревью
type SolutionHandler struct {
	solutionService *service.SolutionService
	reviewService   *service.ReviewService
}

// NewSolutionHandler создает новый обработчик решений
func NewSolutionHandler(solutionService *service.SolutionService, reviewService *service.ReviewService) *SolutionHandler {
	return &SolutionHandler{
		solutionService: solutionService,
		reviewService:   reviewService,
	}
}

// SubmitSolutionRequest представляет запрос на отправку решения
type SubmitSolutionRequest struct {
	Code string `json:"code" binding:"required,max=65536"`
}

// SubmitSolution принимает решение по задаче
// POST /api/tasks/:id/solutions
func (h *SolutionHandler) SubmitSolution(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	taskID := c.MustGet("taskID").(uint)

	var req SubmitSolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	solution, err := h.solutionService.Submit(userID, taskID, req.Code)
	if err != nil {
		h.handleSolutionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSolutionResponse(solution, true))
}

// MySolutions возвращает текущие решения пользователя
// GET /api/solutions/my
func (h *SolutionHandler) MySolutions(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	solutions, err := h.solutionService.ListByUser(userID)
	if err != nil {
		h.handleSolutionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListSolutionResponse(solutions, true))
}

// ReviewQueue возвращает чужие решения, доступные ревьюеру
// GET /api/solutions/review-queue?page=1&per_page=10
func (h *SolutionHandler) ReviewQueue(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if page < 1 {
		page = 1
	}

	solutions, err := h.solutionService.ListForReview(userID, perPage, (page-1)*perPage)
	if err != nil {
		h.handleSolutionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListSolutionResponse(solutions, true))
}

// GetSolution возвращает решение вместе с его ревью.
// Код решения виден автору и ревьюерам; здесь доступ уже прошел RequireAuth.
// GET /api/solutions/:id
func (h *SolutionHandler) GetSolution(c *gin.Context) {
	solutionID := c.MustGet("solutionID").(uint)

	solution, err := h.solutionService.GetByID(solutionID)
	if err != nil {
		h.handleSolutionError(c, err)
		return
	}

	reviews, err := h.reviewService.ListBySolution(solutionID)
	if err != nil {
		h.handleSolutionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"solution": dto.NewSolutionResponse(solution, true),
		"reviews":  dto.NewListReviewResponse(reviews),
	})
}

// SubmitReviewRequest представляет запрос на отправку ревью
type SubmitReviewRequest struct {
	Verdict string `json:"verdict" binding:"required,oneof=accepted rejected"`
	Comment string `json:"comment" binding:"omitempty,max=5000"`
}

// SubmitReview принимает ревью на решение
// POST /api/solutions/:id/reviews
func (h *SolutionHandler) SubmitReview(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	solutionID := c.MustGet("solutionID").(uint)

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.Submit(userID, solutionID, req.Verdict, req.Comment)
	if err != nil {
		h.handleSolutionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewReviewResponse(review))
}

// AdminListSolutions возвращает решения с фильтрами для администратора
// GET /api/admin/solutions?status=pending&task_id=1&user_id=2
func (h *SolutionHandler) AdminListSolutions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}

	taskID, _ := strconv.ParseUint(c.Query("task_id"), 10, 32)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 32)

	filters := repository.SolutionFilters{
		Status: c.Query("status"),
		TaskID: uint(taskID),
		UserID: uint(userID),
	}

	solutions, total, err := h.solutionService.ListWithFilters(filters, perPage, (page-1)*perPage)
	if err != nil {
		h.handleSolutionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"solutions": dto.NewListSolutionResponse(solutions, false),
		"total":     total,
		"page":      page,
		"per_page":  perPage,
	})
}

// handleSolutionError обрабатывает ошибки сервисов решений и ревью
func (h *SolutionHandler) handleSolutionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, service.ErrAlreadyReviewed),
		errors.Is(err, service.ErrSolutionDecided):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden), errors.Is(err, service.ErrOwnSolution):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Printf("ERROR: Internal server error in SolutionHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

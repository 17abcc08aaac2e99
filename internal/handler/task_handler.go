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

// TaskHandler обрабатывает запросы каталога задач
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler создает новый обработчик задач
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks возвращает каталог задач с фильтрами
// GET /api/tasks?difficulty=easy&language=go&search=...&page=1&per_page=20
func (h *TaskHandler) ListTasks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}

	filters := repository.TaskFilters{
		Difficulty: c.Query("difficulty"),
		Language:   c.Query("language"),
		Search:     c.Query("search"),
	}

	tasks, total, err := h.taskService.ListWithFilters(filters, perPage, (page-1)*perPage)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedTaskResponse(tasks, total, page, perPage))
}

// GetTask возвращает задачу по ID
// GET /api/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID := c.MustGet("taskID").(uint)

	task, err := h.taskService.GetByID(taskID)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTaskResponse(task))
}

// CreateTaskRequest представляет запрос на создание задачи
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Description string `json:"description" binding:"required"`
	Difficulty  string `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Language    string `json:"language" binding:"required,max=30"`
}

// CreateTask добавляет задачу в каталог (только администратор)
// POST /api/admin/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Create(req.Title, req.Description, req.Difficulty, req.Language)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTaskResponse(task))
}

// handleTaskError обрабатывает ошибки сервиса задач
func (h *TaskHandler) handleTaskError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in TaskHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

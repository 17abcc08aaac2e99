package dto

import (
	"time"

	"github.com/yourusername/codereview-api/internal/domain/entity"
	"github.com/yourusername/codereview-api/internal/service"
)

// TaskResponse представляет задачу в формате для ответа клиенту
type TaskResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Difficulty  string    `json:"difficulty"`
	Language    string    `json:"language"`
	Completions int64     `json:"completions"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTaskResponse создает DTO задачи
func NewTaskResponse(task *entity.Task) *TaskResponse {
	if task == nil {
		return nil
	}
	return &TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Difficulty:  task.Difficulty,
		Language:    task.Language,
		Completions: task.Completions,
		CreatedAt:   task.CreatedAt,
	}
}

// PaginatedTaskResponse - страница каталога задач
type PaginatedTaskResponse struct {
	Tasks   []*TaskResponse `json:"tasks"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

// NewPaginatedTaskResponse создает страницу задач
func NewPaginatedTaskResponse(tasks []entity.Task, total int64, page, perPage int) *PaginatedTaskResponse {
	items := make([]*TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, NewTaskResponse(&tasks[i]))
	}
	return &PaginatedTaskResponse{Tasks: items, Total: total, Page: page, PerPage: perPage}
}

// SolutionResponse представляет решение в формате для ответа клиенту
type SolutionResponse struct {
	ID        uint                `json:"id"`
	TaskID    uint                `json:"task_id"`
	UserID    uint                `json:"user_id"`
	Code      string              `json:"code,omitempty"`
	Status    string              `json:"status"`
	IsCurrent bool                `json:"is_current"`
	Task      *TaskResponse       `json:"task,omitempty"`
	User      *PublicUserResponse `json:"user,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// NewSolutionResponse создает DTO решения. includeCode управляет выдачей
// исходника: в очереди ревью он нужен, в листингах - нет.
func NewSolutionResponse(solution *entity.Solution, includeCode bool) *SolutionResponse {
	if solution == nil {
		return nil
	}
	resp := &SolutionResponse{
		ID:        solution.ID,
		TaskID:    solution.TaskID,
		UserID:    solution.UserID,
		Status:    solution.Status,
		IsCurrent: solution.IsCurrent,
		Task:      NewTaskResponse(solution.Task),
		User:      NewPublicUserResponse(solution.User),
		CreatedAt: solution.CreatedAt,
		UpdatedAt: solution.UpdatedAt,
	}
	if includeCode {
		resp.Code = solution.Code
	}
	return resp
}

// NewListSolutionResponse создает список DTO решений
func NewListSolutionResponse(solutions []entity.Solution, includeCode bool) []*SolutionResponse {
	items := make([]*SolutionResponse, 0, len(solutions))
	for i := range solutions {
		items = append(items, NewSolutionResponse(&solutions[i], includeCode))
	}
	return items
}

// ReviewResponse представляет ревью в формате для ответа клиенту
type ReviewResponse struct {
	ID         uint                `json:"id"`
	SolutionID uint                `json:"solution_id"`
	ReviewerID uint                `json:"reviewer_id"`
	Verdict    string              `json:"verdict"`
	Comment    string              `json:"comment,omitempty"`
	Weight     int                 `json:"weight"`
	Reviewer   *PublicUserResponse `json:"reviewer,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// NewReviewResponse создает DTO ревью
func NewReviewResponse(review *entity.Review) *ReviewResponse {
	if review == nil {
		return nil
	}
	return &ReviewResponse{
		ID:         review.ID,
		SolutionID: review.SolutionID,
		ReviewerID: review.ReviewerID,
		Verdict:    review.Verdict,
		Comment:    review.Comment,
		Weight:     review.Weight,
		Reviewer:   NewPublicUserResponse(review.Reviewer),
		CreatedAt:  review.CreatedAt,
	}
}

// NewListReviewResponse создает список DTO ревью
func NewListReviewResponse(reviews []entity.Review) []*ReviewResponse {
	items := make([]*ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, NewReviewResponse(&reviews[i]))
	}
	return items
}

// AppealResponse представляет апелляцию в формате для ответа клиенту
type AppealResponse struct {
	ID                uint              `json:"id"`
	SolutionID        uint              `json:"solution_id"`
	UserID            uint              `json:"user_id"`
	Reason            string            `json:"reason"`
	Status            string            `json:"status"`
	ResolvedBy        *uint             `json:"resolved_by,omitempty"`
	ResolutionComment string            `json:"resolution_comment,omitempty"`
	ResolvedAt        *time.Time        `json:"resolved_at,omitempty"`
	Solution          *SolutionResponse `json:"solution,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// NewAppealResponse создает DTO апелляции
func NewAppealResponse(appeal *entity.Appeal) *AppealResponse {
	if appeal == nil {
		return nil
	}
	return &AppealResponse{
		ID:                appeal.ID,
		SolutionID:        appeal.SolutionID,
		UserID:            appeal.UserID,
		Reason:            appeal.Reason,
		Status:            appeal.Status,
		ResolvedBy:        appeal.ResolvedBy,
		ResolutionComment: appeal.ResolutionComment,
		ResolvedAt:        appeal.ResolvedAt,
		Solution:          NewSolutionResponse(appeal.Solution, true),
		CreatedAt:         appeal.CreatedAt,
	}
}

// AppealQueueItemResponse - элемент административной очереди разбора:
// апелляция вместе со всеми ревью ее решения
type AppealQueueItemResponse struct {
	Appeal  *AppealResponse   `json:"appeal"`
	Reviews []*ReviewResponse `json:"reviews"`
}

// NewAppealQueueResponse создает DTO очереди разбора
func NewAppealQueueResponse(queue []service.AppealWithReviews) []*AppealQueueItemResponse {
	items := make([]*AppealQueueItemResponse, 0, len(queue))
	for i := range queue {
		items = append(items, &AppealQueueItemResponse{
			Appeal:  NewAppealResponse(&queue[i].Appeal),
			Reviews: NewListReviewResponse(queue[i].Reviews),
		})
	}
	return items
}

// NotificationResponse представляет уведомление в формате для ответа клиенту
type NotificationResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	IsGlobal  bool      `json:"is_global"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotificationResponse создает DTO уведомления
func NewNotificationResponse(n *entity.Notification) *NotificationResponse {
	if n == nil {
		return nil
	}
	return &NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		IsRead:    n.IsRead,
		IsGlobal:  n.IsGlobal,
		CreatedAt: n.CreatedAt,
	}
}

// NewListNotificationResponse создает список DTO уведомлений
func NewListNotificationResponse(notifications []entity.Notification) []*NotificationResponse {
	items := make([]*NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, NewNotificationResponse(&notifications[i]))
	}
	return items
}

package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/codereview-api/internal/domain/entity"
	"github.com/yourusername/codereview-api/internal/handler/dto"
	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
	"github.com/yourusername/codereview-api/internal/service"
)

// AppealHandler обрабатывает запросы подачи и разбора апелляций
type AppealHandler struct {
	appealService *service.AppealService
}

// NewAppealHandler создает новый обработчик апелляций
func NewAppealHandler(appealService *service.AppealService) *AppealHandler {
	return &AppealHandler{appealService: appealService}
}

// CreateAppealRequest представляет запрос на подачу апелляции
type CreateAppealRequest struct {
	Reason string `json:"reason" binding:"required,max=5000"`
}

// CreateAppeal подает апелляцию на отклоненное решение
// POST /api/solutions/:id/appeals
func (h *AppealHandler) CreateAppeal(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	solutionID := c.MustGet("solutionID").(uint)

	var req CreateAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appeal, err := h.appealService.Create(userID, solutionID, req.Reason)
	if err != nil {
		h.handleAppealError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAppealResponse(appeal))
}

// MyAppeals возвращает апелляции пользователя
// GET /api/appeals/my
func (h *AppealHandler) MyAppeals(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	appeals, err := h.appealService.ListByUser(userID)
	if err != nil {
		h.handleAppealError(c, err)
		return
	}

	items := make([]*dto.AppealResponse, 0, len(appeals))
	for i := range appeals {
		items = append(items, dto.NewAppealResponse(&appeals[i]))
	}
	c.JSON(http.StatusOK, gin.H{"appeals": items})
}

// PendingQueue возвращает очередь разбора для администратора:
// апелляции oldest-first, каждая с ревью своего решения
// GET /api/admin/appeals
func (h *AppealHandler) PendingQueue(c *gin.Context) {
	queue, err := h.appealService.ListPending()
	if err != nil {
		h.handleAppealError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"queue": dto.NewAppealQueueResponse(queue)})
}

// ResolveAppealRequest представляет решение администратора по апелляции
type ResolveAppealRequest struct {
	Decision             string `json:"decision" binding:"required,oneof=approved rejected"`
	Comment              string `json:"comment" binding:"omitempty,max=5000"`
	PenalizedReviewerIDs []uint `json:"penalized_reviewer_ids"`
}

// ResolveAppeal разбирает апелляцию (только администратор)
// POST /api/admin/appeals/:id/resolve
func (h *AppealHandler) ResolveAppeal(c *gin.Context) {
	resolverID := c.MustGet("user_id").(uint)
	appealID := c.MustGet("appealID").(uint)

	var req ResolveAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appeal, err := h.appealService.Resolve(c.Request.Context(), appealID, req.Decision, req.Comment, req.PenalizedReviewerIDs, resolverID)
	if err != nil {
		h.handleAppealError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAppealResponse(appeal))
}

// ExportResolvedAppeals экспортирует историю разобранных апелляций
// GET /api/admin/appeals/export?format=csv|xlsx
func (h *AppealHandler) ExportResolvedAppeals(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	appeals, err := h.appealService.ListResolved()
	if err != nil {
		h.handleAppealError(c, err)
		return
	}

	filename := fmt.Sprintf("appeals_resolved_%s", time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, appeals, filename)
	default:
		h.exportCSV(c, appeals, filename)
	}
}

var appealExportHeader = []string{"ID", "Решение", "Автор", "Причина", "Статус", "Комментарий", "Разобрал", "Дата разбора"}

// appealExportRow собирает строку экспорта из апелляции
func appealExportRow(a *entity.Appeal) []string {
	author := strconv.FormatUint(uint64(a.UserID), 10)
	if a.User != nil {
		author = a.User.Username
	}
	resolvedBy := ""
	if a.ResolvedBy != nil {
		resolvedBy = strconv.FormatUint(uint64(*a.ResolvedBy), 10)
	}
	resolvedAt := ""
	if a.ResolvedAt != nil {
		resolvedAt = a.ResolvedAt.Format(time.RFC3339)
	}
	return []string{
		strconv.FormatUint(uint64(a.ID), 10),
		strconv.FormatUint(uint64(a.SolutionID), 10),
		sanitizeForExcel(author),
		sanitizeForExcel(a.Reason),
		a.Status,
		sanitizeForExcel(a.ResolutionComment),
		resolvedBy,
		resolvedAt,
	}
}

// exportCSV выгружает апелляции в CSV с экранированием спецсимволов
func (h *AppealHandler) exportCSV(c *gin.Context, appeals []entity.Appeal, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного открытия кириллицы в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(appealExportHeader)
	for i := range appeals {
		writer.Write(appealExportRow(&appeals[i]))
	}
}

// exportXLSX выгружает апелляции в Excel через StreamWriter
func (h *AppealHandler) exportXLSX(c *gin.Context, appeals []entity.Appeal, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Апелляции"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[AppealHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	header := make([]interface{}, len(appealExportHeader))
	for i, col := range appealExportHeader {
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		log.Printf("[AppealHandler] Ошибка записи заголовка: %v", err)
	}

	for i := range appeals {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		fields := appealExportRow(&appeals[i])
		row := make([]interface{}, len(fields))
		for j, v := range fields {
			row[j] = v
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[AppealHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[AppealHandler] Ошибка при Flush: %v", err)
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[AppealHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// handleAppealError обрабатывает ошибки сервиса апелляций
func (h *AppealHandler) handleAppealError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in AppealHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

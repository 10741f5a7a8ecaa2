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

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
	"github.com/souloukn/geomatiqueupm/internal/handler/dto"
	apperrors "github.com/souloukn/geomatiqueupm/internal/pkg/errors"
	"github.com/souloukn/geomatiqueupm/internal/service"
)

// ExamHandler обрабатывает запросы преподавателя, связанные с экзаменами
type ExamHandler struct {
	examService   *service.ExamService
	resultService *service.ResultService
}

// NewExamHandler создает новый обработчик экзаменов
func NewExamHandler(
	examService *service.ExamService,
	resultService *service.ResultService,
) *ExamHandler {
	return &ExamHandler{
		examService:   examService,
		resultService: resultService,
	}
}

// QuestionRequest представляет вопрос в запросе создания/правки экзамена
type QuestionRequest struct {
	Text    string `json:"text" binding:"required,min=3,max=1000"`
	Points  int    `json:"points" binding:"omitempty,min=1,max=100"`
	Options []struct {
		Text      string `json:"text" binding:"required,min=1,max=500"`
		IsCorrect bool   `json:"is_correct"`
	} `json:"options" binding:"required,min=2,max=6"`
}

// ExamRequest представляет запрос на создание или правку экзамена
type ExamRequest struct {
	Title           string            `json:"title" binding:"required,min=3,max=200"`
	Description     string            `json:"description" binding:"omitempty,max=1000"`
	University      string            `json:"university" binding:"omitempty,max=200"`
	Faculty         string            `json:"faculty" binding:"omitempty,max=200"`
	Department      string            `json:"department" binding:"omitempty,max=200"`
	Subject         string            `json:"subject" binding:"omitempty,max=200"`
	Class           string            `json:"class" binding:"omitempty,max=100"`
	DurationMinutes int               `json:"duration_minutes" binding:"required,min=1,max=600"`
	MaxAttempts     int               `json:"max_attempts" binding:"omitempty,min=1,max=10"`
	StartDate       *time.Time        `json:"start_date"`
	Questions       []QuestionRequest `json:"questions" binding:"required,min=1"`
}

// toEntity собирает entity.Exam из запроса
func (req *ExamRequest) toEntity() *entity.Exam {
	exam := &entity.Exam{
		Title:           req.Title,
		Description:     req.Description,
		University:      req.University,
		Faculty:         req.Faculty,
		Department:      req.Department,
		Subject:         req.Subject,
		Class:           req.Class,
		DurationMinutes: req.DurationMinutes,
		MaxAttempts:     req.MaxAttempts,
		StartDate:       req.StartDate,
	}
	for i, q := range req.Questions {
		options := make(entity.OptionArray, 0, len(q.Options))
		for _, o := range q.Options {
			options = append(options, entity.Option{Text: o.Text, IsCorrect: o.IsCorrect})
		}
		exam.Questions = append(exam.Questions, entity.Question{
			Position: i,
			Text:     q.Text,
			Points:   q.Points,
			Options:  options,
		})
	}
	return exam
}

// CreateExam обрабатывает запрос на создание экзамена
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exam := req.toEntity()
	if err := h.examService.CreateExam(exam); err != nil {
		h.handleExamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewExamResponse(exam, true))
}

// GetExam возвращает экзамен с вопросами
func (h *ExamHandler) GetExam(c *gin.Context) {
	examID := c.MustGet("examID").(string) // Получаем из контекста

	exam, err := h.examService.GetExam(examID)
	if err != nil {
		h.handleExamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewExamResponse(exam, true))
}

// ListExams возвращает список экзаменов преподавателя
func (h *ExamHandler) ListExams(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	exams, err := h.examService.ListExams(limit, offset)
	if err != nil {
		h.handleExamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListExamResponse(exams))
}

// UpdateExam обрабатывает запрос на правку экзамена
func (h *ExamHandler) UpdateExam(c *gin.Context) {
	examID := c.MustGet("examID").(string)

	var req ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exam := req.toEntity()
	exam.ID = examID
	if err := h.examService.UpdateExam(exam); err != nil {
		h.handleExamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewExamResponse(exam, true))
}

// DeleteExam удаляет экзамен вместе с результатами
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	examID := c.MustGet("examID").(string)

	if err := h.examService.DeleteExam(examID); err != nil {
		h.handleExamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Exam deleted"})
}

// PublishRequest представляет запрос на публикацию результатов
type PublishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// PublishResults переключает публикацию результатов экзамена
func (h *ExamHandler) PublishResults(c *gin.Context) {
	examID := c.MustGet("examID").(string)

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.resultService.SetPublished(examID, *req.Published); err != nil {
		h.handleExamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exam_id": examID, "results_published": *req.Published})
}

// GetExamResults возвращает все результаты экзамена для преподавателя
func (h *ExamHandler) GetExamResults(c *gin.Context) {
	examID := c.MustGet("examID").(string)

	exam, results, err := h.resultService.ExamResults(examID)
	if err != nil {
		h.handleExamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exam":    dto.NewExamResponse(exam, false),
		"results": dto.NewListResultResponse(results),
	})
}

// ExportExamResults экспортирует результаты экзамена в CSV или XLSX
func (h *ExamHandler) ExportExamResults(c *gin.Context) {
	examID := c.MustGet("examID").(string)
	format := c.DefaultQuery("format", "csv")

	exam, results, err := h.resultService.ExamResults(examID)
	if err != nil {
		h.handleExamError(c, err)
		return
	}

	filename := fmt.Sprintf("resultats_%s_%s", exam.Code, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, results, filename)
	default:
		h.exportCSV(c, results, filename)
	}
}

// exportCSV экспортирует результаты в CSV с правильным экранированием спецсимволов
func (h *ExamHandler) exportCSV(c *gin.Context, results []entity.Result, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// Используем encoding/csv для правильного экранирования запятых/кавычек
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// Заголовки
	writer.Write([]string{"Matricule", "Nom", "Prénom", "Sexe", "Note", "Total", "Pourcentage", "Mention", "Temps (min)", "Soumis le"})

	// Данные
	for i := range results {
		r := &results[i]
		writer.Write([]string{
			sanitizeForExcel(r.StudentID),
			sanitizeForExcel(r.StudentLastname),
			sanitizeForExcel(r.StudentFirstname),
			sanitizeForExcel(r.StudentGender),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.TotalPoints),
			fmt.Sprintf("%.1f%%", r.Percentage()),
			r.Mention(),
			fmt.Sprintf("%.1f", r.TimeUsedMinutes),
			r.SubmittedAt.Format("2006-01-02 15:04"),
		})
	}
}

// exportXLSX экспортирует результаты в Excel с использованием StreamWriter
func (h *ExamHandler) exportXLSX(c *gin.Context, results []entity.Result, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Résultats"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ExamHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	// Заголовки
	headers := []interface{}{"Matricule", "Nom", "Prénom", "Sexe", "Note", "Total", "Pourcentage", "Mention", "Temps (min)", "Soumis le"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ExamHandler] Ошибка записи заголовков: %v", err)
	}

	// Данные
	for i := range results {
		r := &results[i]
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		row := []interface{}{
			sanitizeForExcel(r.StudentID),
			sanitizeForExcel(r.StudentLastname),
			sanitizeForExcel(r.StudentFirstname),
			sanitizeForExcel(r.StudentGender),
			r.Score,
			r.TotalPoints,
			r.Percentage() / 100,
			r.Mention(),
			r.TimeUsedMinutes,
			r.SubmittedAt.Format("2006-01-02 15:04"),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ExamHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ExamHandler] Ошибка при Flush: %v", err)
	}

	// Записываем в response
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ExamHandler] Ошибка записи Excel в response: %v", err)
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

// handleExamError обрабатывает ошибки сервисов и отправляет соответствующий HTTP ответ
func (h *ExamHandler) handleExamError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrDuplicateAttempt) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrStorage) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in ExamHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
	"github.com/souloukn/geomatiqueupm/internal/handler/dto"
	apperrors "github.com/souloukn/geomatiqueupm/internal/pkg/errors"
	"github.com/souloukn/geomatiqueupm/internal/service"
	"github.com/souloukn/geomatiqueupm/internal/service/examsession"
	ws "github.com/souloukn/geomatiqueupm/internal/websocket"
)

// SessionHandler обрабатывает запросы студентов: сессии экзамена и результаты
type SessionHandler struct {
	sessionManager *examsession.Manager
	examService    *service.ExamService
	resultService  *service.ResultService
	hub            *ws.Hub
	upgrader       websocket.Upgrader
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(
	sessionManager *examsession.Manager,
	examService *service.ExamService,
	resultService *service.ResultService,
	hub *ws.Hub,
) *SessionHandler {
	return &SessionHandler{
		sessionManager: sessionManager,
		examService:    examService,
		resultService:  resultService,
		hub:            hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Страница студента отдается с того же домена
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// StartSessionRequest представляет запрос на начало сессии экзамена
type StartSessionRequest struct {
	Code    string `json:"code" binding:"required,len=8"`
	Student struct {
		ID        string `json:"id" binding:"required,min=1,max=50"`
		Lastname  string `json:"lastname" binding:"required,min=1,max=100"`
		Firstname string `json:"firstname" binding:"required,min=1,max=100"`
		Gender    string `json:"gender" binding:"omitempty,max=20"`
	} `json:"student" binding:"required"`
}

// StartSession начинает сессию экзамена для студента
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student := entity.Student{
		ID:        req.Student.ID,
		Lastname:  req.Student.Lastname,
		Firstname: req.Student.Firstname,
		Gender:    req.Student.Gender,
	}

	session, err := h.sessionManager.Start(req.Code, student)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id":   session.ID,
		"ends_at":      session.EndTime,
		"seconds_left": int(session.Remaining(time.Now()).Seconds()),
		"exam":         dto.NewStudentExamResponse(session.Exam),
	})
}

// GetSession возвращает состояние активной сессии (для восстановления страницы)
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.sessionManager.Get(c.Param("id"))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":   session.ID,
		"state":        session.State(),
		"ends_at":      session.EndTime,
		"seconds_left": int(session.Remaining(time.Now()).Seconds()),
		"selections":   session.Selections(),
	})
}

// AnswerRequest представляет выбор студента по вопросу.
// SelectedOption == null снимает отметку с вопроса.
type AnswerRequest struct {
	QuestionIndex  int  `json:"question_index" binding:"min=0"`
	SelectedOption *int `json:"selected_option"`
}

// Answer записывает выбор студента
func (h *SessionHandler) Answer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.sessionManager.Answer(c.Param("id"), req.QuestionIndex, req.SelectedOption); err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recorded": true})
}

// SubmitRequest представляет запрос на сдачу экзамена
type SubmitRequest struct {
	Confirmed bool `json:"confirmed"`
}

// Submit сдает экзамен по запросу студента.
// Без подтверждения сдача не выполняется: клиент обязан переспросить студента.
func (h *SessionHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.Confirmed {
		c.JSON(http.StatusOK, gin.H{
			"submitted":             false,
			"confirmation_required": true,
			"message":               "Confirmez la soumission de votre examen",
		})
		return
	}

	result, err := h.sessionManager.Submit(c.Param("id"), false)
	if err != nil {
		// Результат подсчитан, но не сохранен: сообщаем студенту о сдаче,
		// преподаватель увидит ошибку в логах
		if errors.Is(err, apperrors.ErrStorage) && result != nil {
			log.Printf("[SessionHandler] Результат сессии %s не сохранен: %v", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Le résultat n'a pas pu être enregistré, contactez votre enseignant"})
			return
		}
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SubmitResponse{
		Submitted:     true,
		AutoSubmitted: false,
		SubmittedAt:   result.SubmittedAt,
		Message:       "Examen soumis avec succès",
	})
}

// GetExamByCode возвращает карточку экзамена по коду доступа (до начала сессии)
func (h *SessionHandler) GetExamByCode(c *gin.Context) {
	exam, err := h.examService.GetExamByCode(c.Param("code"))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	// Вопросы не отдаются до старта сессии
	c.JSON(http.StatusOK, gin.H{
		"code":              exam.Code,
		"title":             exam.Title,
		"description":       exam.Description,
		"university":        exam.University,
		"subject":           exam.Subject,
		"duration_minutes":  exam.DurationMinutes,
		"question_count":    exam.QuestionCount(),
		"start_date":        exam.StartDate,
		"results_published": exam.ResultsPublished,
	})
}

// GetStudentResult возвращает опубликованный результат студента
func (h *SessionHandler) GetStudentResult(c *gin.Context) {
	code := c.Query("code")
	studentID := c.Query("student_id")
	if code == "" || studentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code and student_id are required"})
		return
	}

	exam, result, err := h.resultService.StudentResult(code, studentID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewStudentResultResponse(exam, result))
}

// ServeWS подключает клиента к каналу событий сессии (тики, автосдача)
func (h *SessionHandler) ServeWS(c *gin.Context) {
	sessionID := c.Param("id")
	if _, err := h.sessionManager.Get(sessionID); err != nil {
		h.handleSessionError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[SessionHandler] Ошибка WebSocket upgrade для сессии %s: %v", sessionID, err)
		return
	}

	client := ws.NewClient(h.hub, conn, sessionID)
	go client.Run()
}

// handleSessionError обрабатывает ошибки сервисов и отправляет соответствующий HTTP ответ
func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrDuplicateAttempt) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in SessionHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

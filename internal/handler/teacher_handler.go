package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
	apperrors "github.com/souloukn/geomatiqueupm/internal/pkg/errors"
	"github.com/souloukn/geomatiqueupm/internal/service"
)

// TeacherHandler обрабатывает карточку преподавателя и настройки интерфейса
type TeacherHandler struct {
	teacherService *service.TeacherService
}

// NewTeacherHandler создает новый обработчик
func NewTeacherHandler(teacherService *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teacherService: teacherService}
}

// GetInfo возвращает публичную карточку преподавателя (без аутентификации)
func (h *TeacherHandler) GetInfo(c *gin.Context) {
	info, err := h.teacherService.Info()
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		h.handleTeacherError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// InfoRequest представляет запрос на обновление карточки преподавателя
type InfoRequest struct {
	FullName string `json:"full_name" binding:"required,min=2,max=200"`
	Title    string `json:"title" binding:"omitempty,max=200"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone" binding:"omitempty,max=50"`
}

// SaveInfo сохраняет карточку преподавателя
func (h *TeacherHandler) SaveInfo(c *gin.Context) {
	var req InfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info := &entity.TeacherInfo{
		FullName: req.FullName,
		Title:    req.Title,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if err := h.teacherService.SaveInfo(info); err != nil {
		h.handleTeacherError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// GetSettings возвращает настройки интерфейса
func (h *TeacherHandler) GetSettings(c *gin.Context) {
	settings, err := h.teacherService.GetSettings()
	if err != nil {
		h.handleTeacherError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// SaveSettings сохраняет настройки интерфейса
func (h *TeacherHandler) SaveSettings(c *gin.Context) {
	var settings service.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.teacherService.SaveSettings(settings); err != nil {
		h.handleTeacherError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// handleTeacherError обрабатывает ошибки сервиса преподавателя
func (h *TeacherHandler) handleTeacherError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in TeacherHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

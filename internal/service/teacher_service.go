package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
	"github.com/souloukn/geomatiqueupm/internal/domain/repository"
	apperrors "github.com/souloukn/geomatiqueupm/internal/pkg/errors"
)

// Ключ настроек интерфейса в кеше
const settingsCacheKey = "app:settings"

// Settings хранит настройки интерфейса (тема, язык)
type Settings struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// DefaultSettings возвращает настройки по умолчанию
func DefaultSettings() Settings {
	return Settings{Theme: "light", Language: "fr"}
}

// TeacherService управляет публичной карточкой преподавателя и настройками
type TeacherService struct {
	teacherRepo repository.TeacherRepository
	cacheRepo   repository.CacheRepository
}

// NewTeacherService создает новый сервис преподавателя
func NewTeacherService(teacherRepo repository.TeacherRepository, cacheRepo repository.CacheRepository) *TeacherService {
	return &TeacherService{
		teacherRepo: teacherRepo,
		cacheRepo:   cacheRepo,
	}
}

// Info возвращает карточку преподавателя для страницы входа студентов
func (s *TeacherService) Info() (*entity.TeacherInfo, error) {
	return s.teacherRepo.GetInfo()
}

// SaveInfo сохраняет карточку преподавателя
func (s *TeacherService) SaveInfo(info *entity.TeacherInfo) error {
	if strings.TrimSpace(info.FullName) == "" {
		return fmt.Errorf("%w: full name is required", apperrors.ErrValidation)
	}
	if err := s.teacherRepo.SaveInfo(info); err != nil {
		return err
	}
	log.Printf("[TeacherService] Карточка преподавателя обновлена: %s", info.FullName)
	return nil
}

// GetSettings возвращает настройки интерфейса.
// При отсутствии сохраненных настроек возвращаются значения по умолчанию.
func (s *TeacherService) GetSettings() (Settings, error) {
	var settings Settings
	if err := s.cacheRepo.GetJSON(settingsCacheKey, &settings); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return DefaultSettings(), nil
		}
		return Settings{}, err
	}
	return settings, nil
}

// SaveSettings сохраняет настройки интерфейса (без срока действия)
func (s *TeacherService) SaveSettings(settings Settings) error {
	if settings.Theme != "light" && settings.Theme != "dark" {
		return fmt.Errorf("%w: unknown theme %q", apperrors.ErrValidation, settings.Theme)
	}
	if settings.Language == "" {
		settings.Language = "fr"
	}
	return s.cacheRepo.SetJSON(settingsCacheKey, settings, 0)
}

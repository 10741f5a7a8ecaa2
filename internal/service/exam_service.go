package service

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"

	"github.com/google/uuid"

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
	"github.com/souloukn/geomatiqueupm/internal/domain/repository"
	apperrors "github.com/souloukn/geomatiqueupm/internal/pkg/errors"
)

// Алфавит и длина кода доступа к экзамену
const (
	accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	accessCodeLength   = 8
	// Количество попыток сгенерировать незанятый код
	accessCodeMaxRetries = 5
)

// ExamService предоставляет методы для работы с экзаменами
type ExamService struct {
	examRepo   repository.ExamRepository
	resultRepo repository.ResultRepository
	cacheRepo  repository.CacheRepository
}

// NewExamService создает новый сервис экзаменов
func NewExamService(
	examRepo repository.ExamRepository,
	resultRepo repository.ResultRepository,
	cacheRepo repository.CacheRepository,
) *ExamService {
	return &ExamService{
		examRepo:   examRepo,
		resultRepo: resultRepo,
		cacheRepo:  cacheRepo,
	}
}

// CreateExam создает новый экзамен с уникальным кодом доступа
func (s *ExamService) CreateExam(exam *entity.Exam) error {
	if err := s.validateExam(exam); err != nil {
		return err
	}

	code, err := s.generateAccessCode()
	if err != nil {
		return err
	}

	exam.ID = uuid.New().String()
	exam.Code = code
	exam.ResultsPublished = false
	for i := range exam.Questions {
		exam.Questions[i].ExamID = exam.ID
		exam.Questions[i].Position = i
	}

	if err := s.examRepo.Create(exam); err != nil {
		return err
	}

	log.Printf("[ExamService] Экзамен %s создан, код доступа %s", exam.ID, exam.Code)
	return nil
}

// GetExam возвращает экзамен с вопросами по ID
func (s *ExamService) GetExam(id string) (*entity.Exam, error) {
	return s.examRepo.GetWithQuestions(id)
}

// GetExamByCode возвращает экзамен с вопросами по коду доступа
func (s *ExamService) GetExamByCode(code string) (*entity.Exam, error) {
	return s.examRepo.GetByCode(strings.ToUpper(strings.TrimSpace(code)))
}

// ListExams возвращает список экзаменов с пагинацией
func (s *ExamService) ListExams(limit, offset int) ([]entity.Exam, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.examRepo.List(limit, offset)
}

// UpdateExam обновляет экзамен и его вопросы.
// Код доступа и флаг публикации при правке не меняются.
func (s *ExamService) UpdateExam(exam *entity.Exam) error {
	if err := s.validateExam(exam); err != nil {
		return err
	}

	existing, err := s.examRepo.GetByID(exam.ID)
	if err != nil {
		return err
	}
	exam.Code = existing.Code
	exam.ResultsPublished = existing.ResultsPublished
	exam.CreatedAt = existing.CreatedAt

	if err := s.examRepo.Update(exam); err != nil {
		return err
	}

	s.invalidateExamCache(exam.Code)
	log.Printf("[ExamService] Экзамен %s обновлен", exam.ID)
	return nil
}

// DeleteExam удаляет экзамен вместе с результатами
func (s *ExamService) DeleteExam(id string) error {
	exam, err := s.examRepo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.resultRepo.DeleteByExam(id); err != nil {
		return err
	}
	if err := s.examRepo.Delete(id); err != nil {
		return err
	}

	s.invalidateExamCache(exam.Code)
	log.Printf("[ExamService] Экзамен %s удален вместе с результатами", id)
	return nil
}

// validateExam проверяет корректность экзамена перед сохранением
func (s *ExamService) validateExam(exam *entity.Exam) error {
	if strings.TrimSpace(exam.Title) == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if exam.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", apperrors.ErrValidation)
	}
	if exam.MaxAttempts <= 0 {
		exam.MaxAttempts = 1
	}
	if len(exam.Questions) == 0 {
		return fmt.Errorf("%w: exam must have at least one question", apperrors.ErrValidation)
	}

	for i := range exam.Questions {
		q := &exam.Questions[i]
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question %d text is required", apperrors.ErrValidation, i+1)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d must have at least two options", apperrors.ErrValidation, i+1)
		}
		if !q.HasCorrectOption() {
			return fmt.Errorf("%w: question %d has no correct option", apperrors.ErrValidation, i+1)
		}
		if q.Points <= 0 {
			q.Points = 1
		}
	}
	return nil
}

// generateAccessCode генерирует уникальный 8-символьный код доступа
func (s *ExamService) generateAccessCode() (string, error) {
	for attempt := 0; attempt < accessCodeMaxRetries; attempt++ {
		code, err := randomCode(accessCodeLength)
		if err != nil {
			return "", err
		}

		exists, err := s.examRepo.CodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		log.Printf("[ExamService] Код %s уже занят, генерирую новый", code)
	}
	return "", fmt.Errorf("failed to generate unique access code after %d attempts", accessCodeMaxRetries)
}

// randomCode генерирует криптографически случайный код из алфавита A-Z0-9
func randomCode(length int) (string, error) {
	var sb strings.Builder
	max := big.NewInt(int64(len(accessCodeAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(accessCodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// invalidateExamCache сбрасывает кеш экзамена по коду доступа
func (s *ExamService) invalidateExamCache(code string) {
	if err := s.cacheRepo.Delete("exam:code:" + code); err != nil {
		log.Printf("[ExamService] Ошибка сброса кеша экзамена %s: %v", code, err)
	}
}

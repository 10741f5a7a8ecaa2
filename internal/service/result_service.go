package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
	"github.com/souloukn/geomatiqueupm/internal/domain/repository"
	apperrors "github.com/souloukn/geomatiqueupm/internal/pkg/errors"
)

// ResultService предоставляет методы для работы с результатами экзаменов
type ResultService struct {
	examRepo   repository.ExamRepository
	resultRepo repository.ResultRepository
	cacheRepo  repository.CacheRepository
}

// NewResultService создает новый сервис результатов
func NewResultService(
	examRepo repository.ExamRepository,
	resultRepo repository.ResultRepository,
	cacheRepo repository.CacheRepository,
) *ResultService {
	return &ResultService{
		examRepo:   examRepo,
		resultRepo: resultRepo,
		cacheRepo:  cacheRepo,
	}
}

// HasAttempt проверяет, сдавал ли студент экзамен
func (s *ResultService) HasAttempt(examID, studentID string) (bool, error) {
	return s.resultRepo.HasAttempt(examID, studentID)
}

// ExamResults возвращает все результаты экзамена (для преподавателя)
func (s *ResultService) ExamResults(examID string) (*entity.Exam, []entity.Result, error) {
	exam, err := s.examRepo.GetWithQuestions(examID)
	if err != nil {
		return nil, nil, err
	}

	results, err := s.resultRepo.GetByExam(examID)
	if err != nil {
		return nil, nil, err
	}
	return exam, results, nil
}

// StudentResult возвращает результат студента по коду экзамена.
// Доступен только после публикации результатов преподавателем:
// до публикации возвращается ErrForbidden независимо от наличия результата.
func (s *ResultService) StudentResult(code, studentID string) (*entity.Exam, *entity.Result, error) {
	exam, err := s.examRepo.GetByCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, nil, err
	}

	if !exam.ResultsPublished {
		return nil, nil, fmt.Errorf("%w: results of exam %s are not published", apperrors.ErrForbidden, exam.ID)
	}

	result, err := s.resultRepo.GetByExamAndStudent(exam.ID, strings.TrimSpace(studentID))
	if err != nil {
		return nil, nil, err
	}
	return exam, result, nil
}

// SetPublished переключает публикацию результатов экзамена.
// Флаг хранится на экзамене и действует на все его результаты разом.
func (s *ResultService) SetPublished(examID string, published bool) error {
	exam, err := s.examRepo.GetByID(examID)
	if err != nil {
		return err
	}

	if err := s.examRepo.SetResultsPublished(examID, published); err != nil {
		return err
	}

	// Сбрасываем кеш, чтобы студенты сразу видели актуальный флаг
	if err := s.cacheRepo.Delete("exam:code:" + exam.Code); err != nil {
		log.Printf("[ResultService] Ошибка сброса кеша экзамена %s: %v", exam.Code, err)
	}

	log.Printf("[ResultService] Публикация результатов экзамена %s: %v", examID, published)
	return nil
}

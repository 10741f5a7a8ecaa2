package repository

import (
	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
)

// ResultRepository определяет методы для работы с результатами
type ResultRepository interface {
	// Save сохраняет попытку. Повторная попытка той же пары (экзамен, студент)
	// возвращает apperrors.ErrDuplicateAttempt.
	Save(result *entity.Result) error
	HasAttempt(examID, studentID string) (bool, error)
	GetByExam(examID string) ([]entity.Result, error)
	GetByExamAndStudent(examID, studentID string) (*entity.Result, error)
	DeleteByExam(examID string) error
}

package repository

import (
	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
)

// ExamRepository определяет методы для работы с экзаменами
type ExamRepository interface {
	Create(exam *entity.Exam) error
	GetByID(id string) (*entity.Exam, error)
	// GetByCode возвращает экзамен со всеми вопросами по коду доступа
	GetByCode(code string) (*entity.Exam, error)
	GetWithQuestions(id string) (*entity.Exam, error)
	// Update полностью заменяет экзамен и его вопросы в одной транзакции
	Update(exam *entity.Exam) error
	// SetResultsPublished точечно переключает флаг публикации результатов
	SetResultsPublished(examID string, published bool) error
	List(limit, offset int) ([]entity.Exam, error)
	CodeExists(code string) (bool, error)
	Delete(id string) error
}

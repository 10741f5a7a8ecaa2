package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
	apperrors "github.com/souloukn/geomatiqueupm/internal/pkg/errors"
)

// ResultRepo реализует repository.ResultRepository
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий результатов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// Save сохраняет попытку студента.
// Уникальный индекс idx_exam_student гарантирует одну попытку на пару (экзамен, студент):
// 23505 (unique violation) транслируется в ErrDuplicateAttempt.
func (r *ResultRepo) Save(result *entity.Result) error {
	if err := r.db.Create(result).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: exam %s student %s", apperrors.ErrDuplicateAttempt, result.ExamID, result.StudentID)
		}
		return err
	}
	return nil
}

// HasAttempt проверяет, сдавал ли студент этот экзамен
func (r *ResultRepo) HasAttempt(examID, studentID string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Result{}).
		Where("exam_id = ? AND student_id = ?", examID, studentID).
		Count(&count).Error
	return count > 0, err
}

// GetByExam возвращает все результаты экзамена в порядке сдачи
func (r *ResultRepo) GetByExam(examID string) ([]entity.Result, error) {
	var results []entity.Result
	err := r.db.Where("exam_id = ?", examID).
		Order("submitted_at ASC").
		Find(&results).Error
	return results, err
}

// GetByExamAndStudent возвращает результат студента по экзамену
func (r *ResultRepo) GetByExamAndStudent(examID, studentID string) (*entity.Result, error) {
	var result entity.Result
	err := r.db.Where("exam_id = ? AND student_id = ?", examID, studentID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// DeleteByExam удаляет все результаты экзамена (каскад при удалении экзамена)
func (r *ResultRepo) DeleteByExam(examID string) error {
	return r.db.Where("exam_id = ?", examID).Delete(&entity.Result{}).Error
}

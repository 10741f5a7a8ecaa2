package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
	apperrors "github.com/souloukn/geomatiqueupm/internal/pkg/errors"
)

// ExamRepo реализует repository.ExamRepository
type ExamRepo struct {
	db *gorm.DB
}

// NewExamRepo создает новый репозиторий экзаменов
func NewExamRepo(db *gorm.DB) *ExamRepo {
	return &ExamRepo{db: db}
}

// Create создает новый экзамен вместе с вопросами
func (r *ExamRepo) Create(exam *entity.Exam) error {
	return r.db.Create(exam).Error
}

// GetByID возвращает экзамен по ID
func (r *ExamRepo) GetByID(id string) (*entity.Exam, error) {
	var exam entity.Exam
	err := r.db.First(&exam, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &exam, nil
}

// GetByCode возвращает экзамен с вопросами по коду доступа
func (r *ExamRepo) GetByCode(code string) (*entity.Exam, error) {
	var exam entity.Exam
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&exam, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &exam, nil
}

// GetWithQuestions возвращает экзамен вместе с вопросами
func (r *ExamRepo) GetWithQuestions(id string) (*entity.Exam, error) {
	var exam entity.Exam
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&exam, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &exam, nil
}

// Update полностью заменяет экзамен и его вопросы в одной транзакции.
// Старые вопросы удаляются: позиции и ID вопросов не сохраняются между правками.
func (r *ExamRepo) Update(exam *entity.Exam) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_id = ?", exam.ID).Delete(&entity.Question{}).Error; err != nil {
			return fmt.Errorf("delete old questions: %w", err)
		}
		for i := range exam.Questions {
			exam.Questions[i].ID = 0
			exam.Questions[i].ExamID = exam.ID
			exam.Questions[i].Position = i
		}
		result := tx.Session(&gorm.Session{FullSaveAssociations: true}).
			Model(&entity.Exam{}).
			Where("id = ?", exam.ID).
			Select("*").
			Omit("id", "created_at").
			Updates(exam)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		if len(exam.Questions) > 0 {
			if err := tx.Create(&exam.Questions).Error; err != nil {
				return fmt.Errorf("recreate questions: %w", err)
			}
		}
		return nil
	})
}

// SetResultsPublished точечно переключает флаг публикации результатов
func (r *ExamRepo) SetResultsPublished(examID string, published bool) error {
	result := r.db.Model(&entity.Exam{}).
		Where("id = ?", examID).
		Update("results_published", published)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// List возвращает список экзаменов с пагинацией в порядке создания
func (r *ExamRepo) List(limit, offset int) ([]entity.Exam, error) {
	var exams []entity.Exam
	err := r.db.Limit(limit).Offset(offset).Order("created_at ASC").Find(&exams).Error
	return exams, err
}

// CodeExists проверяет, занят ли код доступа
func (r *ExamRepo) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Exam{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// Delete удаляет экзамен и его вопросы
func (r *ExamRepo) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_id = ?", id).Delete(&entity.Question{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.Exam{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

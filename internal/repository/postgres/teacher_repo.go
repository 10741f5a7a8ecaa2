package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
	apperrors "github.com/souloukn/geomatiqueupm/internal/pkg/errors"
)

// TeacherRepo реализует repository.TeacherRepository
type TeacherRepo struct {
	db *gorm.DB
}

// NewTeacherRepo создает новый репозиторий преподавателей
func NewTeacherRepo(db *gorm.DB) *TeacherRepo {
	return &TeacherRepo{db: db}
}

// Create создает учетную запись преподавателя.
// Уникальный индекс по email транслирует 23505 в ErrConflict.
func (r *TeacherRepo) Create(teacher *entity.Teacher) error {
	if err := r.db.Create(teacher).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s", apperrors.ErrConflict, teacher.Email)
		}
		return err
	}
	return nil
}

// GetByID возвращает преподавателя по ID
func (r *TeacherRepo) GetByID(id uint) (*entity.Teacher, error) {
	var teacher entity.Teacher
	err := r.db.First(&teacher, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &teacher, nil
}

// GetByEmail возвращает преподавателя по email
func (r *TeacherRepo) GetByEmail(email string) (*entity.Teacher, error) {
	var teacher entity.Teacher
	err := r.db.Where("email = ?", email).First(&teacher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &teacher, nil
}

// UpdatePassword точечно обновляет хеш пароля
func (r *TeacherRepo) UpdatePassword(id uint, passwordHash string) error {
	result := r.db.Model(&entity.Teacher{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetInfo возвращает публичную карточку преподавателя.
// В таблице хранится единственная запись.
func (r *TeacherRepo) GetInfo() (*entity.TeacherInfo, error) {
	var info entity.TeacherInfo
	err := r.db.Order("id ASC").First(&info).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &info, nil
}

// SaveInfo создает или обновляет карточку преподавателя
func (r *TeacherRepo) SaveInfo(info *entity.TeacherInfo) error {
	existing, err := r.GetInfo()
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return r.db.Create(info).Error
		}
		return err
	}
	info.ID = existing.ID
	return r.db.Save(info).Error
}

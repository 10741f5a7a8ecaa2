package repository

import (
	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
)

// TeacherRepository определяет методы для работы с учетными записями преподавателей
type TeacherRepository interface {
	Create(teacher *entity.Teacher) error
	GetByID(id uint) (*entity.Teacher, error)
	GetByEmail(email string) (*entity.Teacher, error)
	UpdatePassword(id uint, passwordHash string) error

	// GetInfo возвращает публичную карточку преподавателя (единственная запись).
	GetInfo() (*entity.TeacherInfo, error)
	SaveInfo(info *entity.TeacherInfo) error
}

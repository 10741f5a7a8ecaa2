package entity

import (
	"time"
)

// Teacher представляет учетную запись преподавателя
type Teacher struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Teacher) TableName() string {
	return "teachers"
}

// TeacherInfo представляет публичные сведения о преподавателе,
// отображаемые на странице входа студентов.
type TeacherInfo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"size:200;not null;default:''" json:"full_name"`
	Title     string    `gorm:"size:200;not null;default:''" json:"title"`
	Email     string    `gorm:"size:100;not null;default:''" json:"email"`
	Phone     string    `gorm:"size:50;not null;default:''" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (TeacherInfo) TableName() string {
	return "teacher_info"
}

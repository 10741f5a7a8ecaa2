package entity

import (
	"time"
)

// Exam представляет экзамен, созданный преподавателем.
// Доступ студентов к экзамену осуществляется по коду доступа (Code).
type Exam struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	Code             string     `gorm:"size:8;not null;uniqueIndex" json:"code"`
	Title            string     `gorm:"size:200;not null" json:"title"`
	Description      string     `gorm:"size:1000;not null;default:''" json:"description"`
	University       string     `gorm:"size:200;not null;default:''" json:"university"`
	Faculty          string     `gorm:"size:200;not null;default:''" json:"faculty"`
	Department       string     `gorm:"size:200;not null;default:''" json:"department"`
	Subject          string     `gorm:"size:200;not null;default:''" json:"subject"`
	Class            string     `gorm:"size:100;not null;default:''" json:"class"`
	DurationMinutes  int        `gorm:"not null;default:60" json:"duration_minutes"`
	MaxAttempts      int        `gorm:"not null;default:1" json:"max_attempts"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	ResultsPublished bool       `gorm:"not null;default:false" json:"results_published"`
	Questions        []Question `gorm:"foreignKey:ExamID" json:"questions,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Exam) TableName() string {
	return "exams"
}

// Duration возвращает длительность экзамена как time.Duration
func (e *Exam) Duration() time.Duration {
	return time.Duration(e.DurationMinutes) * time.Minute
}

// TotalPoints возвращает максимально возможный балл по экзамену
func (e *Exam) TotalPoints() int {
	total := 0
	for i := range e.Questions {
		total += e.Questions[i].Points
	}
	return total
}

// QuestionCount возвращает количество вопросов в экзамене
func (e *Exam) QuestionCount() int {
	return len(e.Questions)
}

// HasStarted проверяет, наступила ли дата начала экзамена.
// Экзамен без даты начала считается доступным сразу.
func (e *Exam) HasStarted(now time.Time) bool {
	if e.StartDate == nil {
		return true
	}
	return !now.Before(*e.StartDate)
}

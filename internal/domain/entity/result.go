package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Answer представляет выбор студента по одному вопросу.
// SelectedOption равен nil, если студент не ответил на вопрос.
type Answer struct {
	QuestionID     uint `json:"question_id"`
	SelectedOption *int `json:"selected_option"`
	IsCorrect      bool `json:"is_correct"`
	Points         int  `json:"points"`
}

// AnswerArray - пользовательский тип для работы с JSONB
type AnswerArray []Answer

// Scan реализует интерфейс sql.Scanner для AnswerArray
func (a *AnswerArray) Scan(value interface{}) error {
	if value == nil {
		*a = AnswerArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*a = AnswerArray{}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Value реализует интерфейс driver.Valuer для AnswerArray
func (a AnswerArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Result представляет сданную попытку студента по экзамену.
// Пара (ExamID, StudentID) уникальна: одна попытка на студента.
type Result struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	ExamID           string      `gorm:"size:36;not null;index;uniqueIndex:idx_exam_student" json:"exam_id"`
	StudentID        string      `gorm:"size:50;not null;uniqueIndex:idx_exam_student" json:"student_id"`
	StudentLastname  string      `gorm:"size:100;not null" json:"student_lastname"`
	StudentFirstname string      `gorm:"size:100;not null" json:"student_firstname"`
	StudentGender    string      `gorm:"size:20;not null;default:''" json:"student_gender"`
	Score            int         `gorm:"not null;default:0" json:"score"`
	TotalPoints      int         `gorm:"not null;default:0" json:"total_points"`
	TimeUsedMinutes  float64     `gorm:"not null;default:0" json:"time_used_minutes"`
	AutoSubmitted    bool        `gorm:"not null;default:false" json:"auto_submitted"`
	Answers          AnswerArray `gorm:"type:jsonb;not null" json:"answers"`
	SubmittedAt      time.Time   `gorm:"not null" json:"submitted_at"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Result) TableName() string {
	return "results"
}

// Percentage возвращает результат в процентах от максимального балла
func (r *Result) Percentage() float64 {
	if r.TotalPoints == 0 {
		return 0
	}
	return float64(r.Score) * 100 / float64(r.TotalPoints)
}

// Passed проверяет, набрал ли студент проходной порог (50%)
func (r *Result) Passed() bool {
	return r.Percentage() >= 50
}

// Mention возвращает итоговую отметку для публикации студенту
func (r *Result) Mention() string {
	if r.Passed() {
		return "Admis"
	}
	return "Ajourné"
}

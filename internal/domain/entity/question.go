package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Option представляет один вариант ответа на вопрос
type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// OptionArray - пользовательский тип для работы с JSONB
type OptionArray []Option

// Scan реализует интерфейс sql.Scanner для OptionArray
// Используется GORM для чтения JSONB данных из базы
func (o *OptionArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = OptionArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		*o = OptionArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для OptionArray
// Используется GORM для записи OptionArray в JSONB в базе
func (o OptionArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос экзамена
type Question struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	ExamID    string      `gorm:"size:36;not null;index" json:"exam_id"`
	Position  int         `gorm:"not null;default:0" json:"position"`
	Text      string      `gorm:"size:1000;not null" json:"text"`
	Points    int         `gorm:"not null;default:1" json:"points"`
	Options   OptionArray `gorm:"type:jsonb;not null" json:"options"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// OptionsCount возвращает количество вариантов ответа
func (q *Question) OptionsCount() int {
	return len(q.Options)
}

// IsValidOption проверяет, является ли выбранный вариант допустимым
func (q *Question) IsValidOption(selectedOption int) bool {
	return selectedOption >= 0 && selectedOption < len(q.Options)
}

// IsCorrect проверяет, является ли выбранный вариант правильным
func (q *Question) IsCorrect(selectedOption int) bool {
	if !q.IsValidOption(selectedOption) {
		return false
	}
	return q.Options[selectedOption].IsCorrect
}

// HasCorrectOption проверяет, что хотя бы один вариант отмечен как правильный
func (q *Question) HasCorrectOption() bool {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return true
		}
	}
	return false
}

package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestion_IsCorrect_CorrectAnswer(t *testing.T) {
	// Arrange
	question := &Question{
		ID:     1,
		ExamID: "exam-1",
		Text:   "Quelle est la projection officielle du Maroc ?",
		Points: 2,
		Options: OptionArray{
			{Text: "UTM", IsCorrect: false},
			{Text: "Lambert conique conforme", IsCorrect: true},
			{Text: "Mercator", IsCorrect: false},
		},
	}

	// Act & Assert
	assert.True(t, question.IsCorrect(1), "IsCorrect должен вернуть true для правильного варианта")
}

func TestQuestion_IsCorrect_IncorrectAnswer(t *testing.T) {
	// Arrange
	question := &Question{
		Options: OptionArray{
			{Text: "A", IsCorrect: false},
			{Text: "B", IsCorrect: true},
			{Text: "C", IsCorrect: false},
		},
	}

	// Act & Assert
	assert.False(t, question.IsCorrect(0), "IsCorrect должен вернуть false для неправильного варианта")
	assert.False(t, question.IsCorrect(2), "IsCorrect должен вернуть false для неправильного варианта")
}

func TestQuestion_IsCorrect_OutOfRange(t *testing.T) {
	// Arrange
	question := &Question{
		Options: OptionArray{
			{Text: "A", IsCorrect: true},
			{Text: "B", IsCorrect: false},
		},
	}

	// Act & Assert: индекс вне диапазона никогда не засчитывается
	assert.False(t, question.IsCorrect(-1), "Отрицательный индекс не должен засчитываться")
	assert.False(t, question.IsCorrect(2), "Индекс за пределами вариантов не должен засчитываться")
	assert.False(t, question.IsCorrect(100), "Индекс далеко за пределами не должен засчитываться")
}

func TestQuestion_IsValidOption(t *testing.T) {
	// Arrange
	question := &Question{
		Options: OptionArray{
			{Text: "A"}, {Text: "B"}, {Text: "C"}, {Text: "D"},
		},
	}

	// Act & Assert: валидные индексы
	assert.True(t, question.IsValidOption(0), "Индекс 0 должен быть валидным")
	assert.True(t, question.IsValidOption(3), "Индекс 3 должен быть валидным")

	// Assert: невалидные индексы
	assert.False(t, question.IsValidOption(-1), "Отрицательный индекс должен быть невалидным")
	assert.False(t, question.IsValidOption(4), "Индекс вне диапазона должен быть невалидным")
}

func TestQuestion_HasCorrectOption(t *testing.T) {
	// Arrange
	withCorrect := &Question{
		Options: OptionArray{
			{Text: "A", IsCorrect: false},
			{Text: "B", IsCorrect: true},
		},
	}
	withoutCorrect := &Question{
		Options: OptionArray{
			{Text: "A", IsCorrect: false},
			{Text: "B", IsCorrect: false},
		},
	}

	// Act & Assert
	assert.True(t, withCorrect.HasCorrectOption(), "Вопрос с правильным вариантом должен его находить")
	assert.False(t, withoutCorrect.HasCorrectOption(), "Вопрос без правильного варианта не должен проходить проверку")
	assert.False(t, (&Question{}).HasCorrectOption(), "Вопрос без вариантов не имеет правильного ответа")
}

func TestOptionArray_ScanNull(t *testing.T) {
	// Arrange
	var options OptionArray

	// Act: NULL из базы данных
	err := options.Scan(nil)

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, options, "NULL должен давать пустой массив вариантов")
}

func TestOptionArray_ValueEmpty(t *testing.T) {
	// Arrange
	options := OptionArray{}

	// Act
	value, err := options.Value()

	// Assert: пустой массив сохраняется как [], а не NULL
	assert.NoError(t, err)
	assert.Equal(t, []byte("[]"), value)
}

package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
)

func sampleExam() *entity.Exam {
	return &entity.Exam{
		ID:              "exam-1",
		Code:            "GEO12345",
		Title:           "Géodésie",
		DurationMinutes: 30,
		Questions: []entity.Question{
			{
				ID:       1,
				Position: 0,
				Text:     "Question 1",
				Points:   2,
				Options: entity.OptionArray{
					{Text: "A", IsCorrect: false},
					{Text: "B", IsCorrect: true},
				},
			},
		},
	}
}

func TestNewStudentExamResponse_HidesCorrectOptions(t *testing.T) {
	// Arrange
	exam := sampleExam()

	// Act
	resp := NewStudentExamResponse(exam)

	// Assert: студент видит только тексты вариантов
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, []string{"A", "B"}, resp.Questions[0].Options)
}

func TestNewExamResponse_WithAndWithoutQuestions(t *testing.T) {
	// Arrange
	exam := sampleExam()

	// Act
	full := NewExamResponse(exam, true)
	list := NewExamResponse(exam, false)

	// Assert
	require.Len(t, full.Questions, 1)
	assert.True(t, full.Questions[0].Options[1].IsCorrect, "Преподаватель видит правильные варианты")
	assert.Equal(t, 1, full.QuestionCount)

	assert.Empty(t, list.Questions, "Список экзаменов отдается без вопросов")
	assert.Equal(t, 1, list.QuestionCount)
}

func TestNewStudentResultResponse(t *testing.T) {
	// Arrange
	exam := sampleExam()
	result := &entity.Result{
		ExamID:      "exam-1",
		StudentID:   "21005678",
		Score:       2,
		TotalPoints: 2,
	}

	// Act
	resp := NewStudentResultResponse(exam, result)

	// Assert
	assert.Equal(t, 2, resp.Score)
	assert.Equal(t, float64(100), resp.Percentage)
	assert.Equal(t, "Admis", resp.Mention)
}

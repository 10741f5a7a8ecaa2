package dto

import (
	"time"

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
)

// OptionResponse представляет вариант ответа для преподавателя
type OptionResponse struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionResponse представляет вопрос в формате для преподавателя
type QuestionResponse struct {
	ID       uint             `json:"id"`
	Position int              `json:"position"`
	Text     string           `json:"text"`
	Points   int              `json:"points"`
	Options  []OptionResponse `json:"options"`
}

// StudentQuestionResponse представляет вопрос для студента.
// Правильные варианты не раскрываются.
type StudentQuestionResponse struct {
	Position int      `json:"position"`
	Text     string   `json:"text"`
	Points   int      `json:"points"`
	Options  []string `json:"options"`
}

// ExamResponse представляет экзамен в формате для преподавателя
type ExamResponse struct {
	ID               string             `json:"id"`
	Code             string             `json:"code"`
	Title            string             `json:"title"`
	Description      string             `json:"description,omitempty"`
	University       string             `json:"university,omitempty"`
	Faculty          string             `json:"faculty,omitempty"`
	Department       string             `json:"department,omitempty"`
	Subject          string             `json:"subject,omitempty"`
	Class            string             `json:"class,omitempty"`
	DurationMinutes  int                `json:"duration_minutes"`
	MaxAttempts      int                `json:"max_attempts"`
	StartDate        *time.Time         `json:"start_date,omitempty"`
	ResultsPublished bool               `json:"results_published"`
	QuestionCount    int                `json:"question_count"`
	Questions        []QuestionResponse `json:"questions,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// StudentExamResponse представляет экзамен для студента, начавшего сессию
type StudentExamResponse struct {
	Code            string                    `json:"code"`
	Title           string                    `json:"title"`
	Description     string                    `json:"description,omitempty"`
	University      string                    `json:"university,omitempty"`
	Subject         string                    `json:"subject,omitempty"`
	DurationMinutes int                       `json:"duration_minutes"`
	Questions       []StudentQuestionResponse `json:"questions"`
}

// NewQuestionResponse создает DTO вопроса для преподавателя
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	options := make([]OptionResponse, 0, len(q.Options))
	for _, o := range q.Options {
		options = append(options, OptionResponse{Text: o.Text, IsCorrect: o.IsCorrect})
	}
	return QuestionResponse{
		ID:       q.ID,
		Position: q.Position,
		Text:     q.Text,
		Points:   q.Points,
		Options:  options,
	}
}

// NewExamResponse создает DTO экзамена для преподавателя
func NewExamResponse(exam *entity.Exam, includeQuestions bool) *ExamResponse {
	resp := &ExamResponse{
		ID:               exam.ID,
		Code:             exam.Code,
		Title:            exam.Title,
		Description:      exam.Description,
		University:       exam.University,
		Faculty:          exam.Faculty,
		Department:       exam.Department,
		Subject:          exam.Subject,
		Class:            exam.Class,
		DurationMinutes:  exam.DurationMinutes,
		MaxAttempts:      exam.MaxAttempts,
		StartDate:        exam.StartDate,
		ResultsPublished: exam.ResultsPublished,
		QuestionCount:    exam.QuestionCount(),
		CreatedAt:        exam.CreatedAt,
		UpdatedAt:        exam.UpdatedAt,
	}
	if includeQuestions {
		resp.Questions = make([]QuestionResponse, 0, len(exam.Questions))
		for i := range exam.Questions {
			resp.Questions = append(resp.Questions, NewQuestionResponse(&exam.Questions[i]))
		}
	}
	return resp
}

// NewListExamResponse создает DTO списка экзаменов без вопросов
func NewListExamResponse(exams []entity.Exam) []*ExamResponse {
	out := make([]*ExamResponse, 0, len(exams))
	for i := range exams {
		out = append(out, NewExamResponse(&exams[i], false))
	}
	return out
}

// NewStudentExamResponse создает DTO экзамена для студента.
// Поле IsCorrect вариантов намеренно отбрасывается.
func NewStudentExamResponse(exam *entity.Exam) *StudentExamResponse {
	questions := make([]StudentQuestionResponse, 0, len(exam.Questions))
	for i := range exam.Questions {
		q := &exam.Questions[i]
		options := make([]string, 0, len(q.Options))
		for _, o := range q.Options {
			options = append(options, o.Text)
		}
		questions = append(questions, StudentQuestionResponse{
			Position: q.Position,
			Text:     q.Text,
			Points:   q.Points,
			Options:  options,
		})
	}
	return &StudentExamResponse{
		Code:            exam.Code,
		Title:           exam.Title,
		Description:     exam.Description,
		University:      exam.University,
		Subject:         exam.Subject,
		DurationMinutes: exam.DurationMinutes,
		Questions:       questions,
	}
}

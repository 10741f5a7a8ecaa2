package dto

import (
	"time"

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
)

// ResultResponse представляет результат для преподавателя
type ResultResponse struct {
	ID               uint      `json:"id"`
	ExamID           string    `json:"exam_id"`
	StudentID        string    `json:"student_id"`
	StudentLastname  string    `json:"student_lastname"`
	StudentFirstname string    `json:"student_firstname"`
	StudentGender    string    `json:"student_gender,omitempty"`
	Score            int       `json:"score"`
	TotalPoints      int       `json:"total_points"`
	Percentage       float64   `json:"percentage"`
	Mention          string    `json:"mention"`
	TimeUsedMinutes  float64   `json:"time_used_minutes"`
	AutoSubmitted    bool      `json:"auto_submitted"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// StudentResultResponse представляет опубликованный результат для студента
type StudentResultResponse struct {
	ExamTitle   string    `json:"exam_title"`
	Subject     string    `json:"subject,omitempty"`
	Score       int       `json:"score"`
	TotalPoints int       `json:"total_points"`
	Percentage  float64   `json:"percentage"`
	Mention     string    `json:"mention"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmitResponse представляет подтверждение сдачи экзамена.
// Балл студенту при сдаче не сообщается: результаты публикуются отдельно.
type SubmitResponse struct {
	Submitted     bool      `json:"submitted"`
	AutoSubmitted bool      `json:"auto_submitted"`
	SubmittedAt   time.Time `json:"submitted_at"`
	Message       string    `json:"message"`
}

// NewResultResponse создает DTO результата для преподавателя
func NewResultResponse(r *entity.Result) *ResultResponse {
	return &ResultResponse{
		ID:               r.ID,
		ExamID:           r.ExamID,
		StudentID:        r.StudentID,
		StudentLastname:  r.StudentLastname,
		StudentFirstname: r.StudentFirstname,
		StudentGender:    r.StudentGender,
		Score:            r.Score,
		TotalPoints:      r.TotalPoints,
		Percentage:       r.Percentage(),
		Mention:          r.Mention(),
		TimeUsedMinutes:  r.TimeUsedMinutes,
		AutoSubmitted:    r.AutoSubmitted,
		SubmittedAt:      r.SubmittedAt,
	}
}

// NewListResultResponse создает DTO списка результатов
func NewListResultResponse(results []entity.Result) []*ResultResponse {
	out := make([]*ResultResponse, 0, len(results))
	for i := range results {
		out = append(out, NewResultResponse(&results[i]))
	}
	return out
}

// NewStudentResultResponse создает DTO опубликованного результата для студента
func NewStudentResultResponse(exam *entity.Exam, r *entity.Result) *StudentResultResponse {
	return &StudentResultResponse{
		ExamTitle:   exam.Title,
		Subject:     exam.Subject,
		Score:       r.Score,
		TotalPoints: r.TotalPoints,
		Percentage:  r.Percentage(),
		Mention:     r.Mention(),
		SubmittedAt: r.SubmittedAt,
	}
}

package examsession

import (
	"time"

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
)

// Score подсчитывает набранный и максимальный балл по экзамену.
// Вопрос засчитывается полностью или не засчитывается вовсе:
// частичных баллов нет, пропущенный вопрос дает 0.
func Score(exam *entity.Exam, selections []*int) (achieved, total int) {
	for i := range exam.Questions {
		q := &exam.Questions[i]
		total += q.Points

		if i >= len(selections) || selections[i] == nil {
			continue
		}
		if q.IsCorrect(*selections[i]) {
			achieved += q.Points
		}
	}
	return achieved, total
}

// BuildAnswers формирует детальный список ответов для сохранения в результате
func BuildAnswers(exam *entity.Exam, selections []*int) entity.AnswerArray {
	answers := make(entity.AnswerArray, 0, len(exam.Questions))
	for i := range exam.Questions {
		q := &exam.Questions[i]

		answer := entity.Answer{QuestionID: q.ID}
		if i < len(selections) && selections[i] != nil {
			answer.SelectedOption = selections[i]
			if q.IsCorrect(*selections[i]) {
				answer.IsCorrect = true
				answer.Points = q.Points
			}
		}
		answers = append(answers, answer)
	}
	return answers
}

// timeUsedMinutes аппроксимирует затраченное время как разницу между
// длительностью экзамена и остатком на момент сдачи.
func timeUsedMinutes(exam *entity.Exam, remaining time.Duration) float64 {
	used := float64(exam.DurationMinutes) - remaining.Minutes()
	if used < 0 {
		return 0
	}
	if used > float64(exam.DurationMinutes) {
		return float64(exam.DurationMinutes)
	}
	return used
}

package entity

import "strings"

// Student описывает студента, проходящего экзамен.
// Студенты не имеют учетных записей: идентификация только по номеру (matricule).
type Student struct {
	ID        string `json:"id"`
	Lastname  string `json:"lastname"`
	Firstname string `json:"firstname"`
	Gender    string `json:"gender"`
}

// Validate проверяет обязательные поля студента
func (s *Student) Validate() bool {
	return strings.TrimSpace(s.ID) != "" &&
		strings.TrimSpace(s.Lastname) != "" &&
		strings.TrimSpace(s.Firstname) != ""
}

// FullName возвращает полное имя студента
func (s *Student) FullName() string {
	return strings.TrimSpace(s.Lastname + " " + s.Firstname)
}

package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены (экзамен, результат, преподаватель).
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, неверный пароль).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия
	// (например, студент запрашивает неопубликованный результат).
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateAttempt используется, когда студент пытается пройти экзамен повторно.
	ErrDuplicateAttempt = errors.New("attempt already recorded")

	// ErrConflict используется для конфликтов состояния сессии
	// (ответ после сдачи, повторная сдача той же сессии).
	ErrConflict = errors.New("resource state conflict")

	// ErrStorage используется, когда результат подсчитан, но не сохранён в хранилище.
	ErrStorage = errors.New("storage failure")
)

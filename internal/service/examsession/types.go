package examsession

import (
	"context"
	"sync"
	"time"

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
	"github.com/souloukn/geomatiqueupm/internal/domain/repository"
)

// Статусы сессии экзамена
const (
	StateInProgress = "in_progress"
	StateSubmitted  = "submitted"
)

// Config содержит настройки для менеджера сессий
type Config struct {
	// Интервал тиков обратного отсчета
	TickInterval time.Duration
	// TTL блокировки попытки в Redis (защита от параллельного старта)
	AttemptLockTTL time.Duration
	// TTL кеша экзамена по коду доступа
	ExamCacheTTL time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		TickInterval:   1 * time.Second,
		AttemptLockTTL: 6 * time.Hour,
		ExamCacheTTL:   5 * time.Minute,
	}
}

// Notifier получает события обратного отсчета активных сессий.
// Реализуется websocket-менеджером; nil-реализация допустима в тестах.
type Notifier interface {
	SessionTick(sessionID string, secondsLeft int)
	SessionExpired(sessionID string)
}

// Dependencies содержит зависимости для менеджера сессий
type Dependencies struct {
	ExamRepo   repository.ExamRepository
	ResultRepo repository.ResultRepository
	CacheRepo  repository.CacheRepository
	Notifier   Notifier
	Config     *Config
}

// Session хранит состояние одной активной попытки студента.
// selections индексируется позицией вопроса; nil означает "нет ответа".
type Session struct {
	ID         string
	Exam       *entity.Exam
	Student    entity.Student
	StartedAt  time.Time
	EndTime    time.Time
	state      string
	selections []*int
	cancel     context.CancelFunc
	mu         sync.RWMutex
}

// State возвращает текущий статус сессии
func (s *Session) State() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Selection возвращает выбор студента по вопросу (nil если нет ответа)
func (s *Session) Selection(questionIndex int) *int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if questionIndex < 0 || questionIndex >= len(s.selections) {
		return nil
	}
	return s.selections[questionIndex]
}

// Selections возвращает копию всех выборов студента
func (s *Session) Selections() []*int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*int, len(s.selections))
	copy(out, s.selections)
	return out
}

// Remaining возвращает оставшееся время сессии (не меньше нуля)
func (s *Session) Remaining(now time.Time) time.Duration {
	remaining := s.EndTime.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

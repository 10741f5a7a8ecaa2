package examsession

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
	apperrors "github.com/souloukn/geomatiqueupm/internal/pkg/errors"
)

// Manager управляет жизненным циклом сессий экзамена:
// старт по коду доступа, прием ответов, обратный отсчет и сдача.
type Manager struct {
	// Настройки
	config *Config

	// Зависимости
	deps *Dependencies

	// Базовый контекст горутин обратного отсчета.
	// Сессии живут дольше HTTP-запроса, который их начал.
	baseCtx context.Context

	// Активные сессии: map[string]*Session
	sessions sync.Map
}

// NewManager создает новый менеджер сессий
func NewManager(ctx context.Context, deps *Dependencies) *Manager {
	config := deps.Config
	if config == nil {
		config = DefaultConfig()
	}
	return &Manager{
		config:  config,
		deps:    deps,
		baseCtx: ctx,
	}
}

// Start начинает сессию экзамена для студента по коду доступа.
// Возвращает ErrNotFound для неизвестного кода, ErrDuplicateAttempt
// при повторной попытке, ErrConflict для еще не открытого экзамена.
func (m *Manager) Start(code string, student entity.Student) (*Session, error) {
	if !student.Validate() {
		return nil, fmt.Errorf("%w: student id, lastname and firstname are required", apperrors.ErrValidation)
	}

	exam, err := m.getExamByCode(code)
	if err != nil {
		return nil, err
	}

	if len(exam.Questions) == 0 {
		return nil, fmt.Errorf("%w: exam %s has no questions", apperrors.ErrValidation, exam.ID)
	}

	now := time.Now()
	if !exam.HasStarted(now) {
		return nil, fmt.Errorf("%w: exam %s opens at %v", apperrors.ErrConflict, exam.ID, exam.StartDate)
	}

	// Сначала проверяем сохраненные результаты
	attempted, err := m.deps.ResultRepo.HasAttempt(exam.ID, student.ID)
	if err != nil {
		return nil, err
	}
	if attempted {
		return nil, fmt.Errorf("%w: exam %s student %s", apperrors.ErrDuplicateAttempt, exam.ID, student.ID)
	}

	// Затем ставим блокировку против параллельного старта второй сессии
	lockKey := fmt.Sprintf("exam:%s:attempt:%s", exam.ID, student.ID)
	acquired, err := m.deps.CacheRepo.SetNX(lockKey, now.Unix(), m.config.AttemptLockTTL)
	if err != nil {
		log.Printf("[ExamSession] Ошибка блокировки попытки (%s): %v", lockKey, err)
		// Кеш недоступен: полагаемся на уникальный индекс при сохранении
	} else if !acquired {
		return nil, fmt.Errorf("%w: exam %s student %s", apperrors.ErrDuplicateAttempt, exam.ID, student.ID)
	}

	session := m.startSession(exam, student, now)
	log.Printf("[ExamSession] Сессия %s начата: экзамен %s, студент %s, до %v",
		session.ID, exam.Code, student.ID, session.EndTime.Format(time.RFC3339))
	return session, nil
}

// startSession регистрирует сессию и запускает обратный отсчет
func (m *Manager) startSession(exam *entity.Exam, student entity.Student, now time.Time) *Session {
	sessionCtx, cancel := context.WithCancel(m.baseCtx)

	session := &Session{
		ID:         uuid.New().String(),
		Exam:       exam,
		Student:    student,
		StartedAt:  now,
		EndTime:    now.Add(exam.Duration()),
		state:      StateInProgress,
		selections: make([]*int, len(exam.Questions)),
		cancel:     cancel,
	}

	m.sessions.Store(session.ID, session)
	go m.runCountdown(sessionCtx, session)
	return session
}

// Get возвращает активную сессию по ID
func (m *Manager) Get(sessionID string) (*Session, error) {
	value, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
	}
	return value.(*Session), nil
}

// Answer записывает выбор студента по вопросу.
// Повторный ответ на тот же вопрос перезаписывает предыдущий;
// selectedOption == nil снимает отметку.
func (m *Manager) Answer(sessionID string, questionIndex int, selectedOption *int) error {
	session, err := m.Get(sessionID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.state != StateInProgress {
		return fmt.Errorf("%w: session %s is %s", apperrors.ErrConflict, sessionID, session.state)
	}
	if questionIndex < 0 || questionIndex >= len(session.selections) {
		return fmt.Errorf("%w: question index %d out of range", apperrors.ErrValidation, questionIndex)
	}
	if selectedOption != nil && !session.Exam.Questions[questionIndex].IsValidOption(*selectedOption) {
		return fmt.Errorf("%w: option %d out of range for question %d", apperrors.ErrValidation, *selectedOption, questionIndex)
	}

	session.selections[questionIndex] = selectedOption
	return nil
}

// Submit завершает сессию, подсчитывает балл и сохраняет результат.
// Повторная сдача той же сессии возвращает ErrConflict.
// При ошибке хранилища результат возвращается вместе с ErrStorage:
// подсчитанный балл не теряется.
func (m *Manager) Submit(sessionID string, auto bool) (*entity.Result, error) {
	session, err := m.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return m.finalize(session, auto)
}

// finalize фиксирует сессию: ровно один вызов переводит ее в submitted
func (m *Manager) finalize(session *Session, auto bool) (*entity.Result, error) {
	session.mu.Lock()
	if session.state != StateInProgress {
		session.mu.Unlock()
		return nil, fmt.Errorf("%w: session %s already %s", apperrors.ErrConflict, session.ID, session.state)
	}
	session.state = StateSubmitted

	now := time.Now()
	remaining := session.Remaining(now)
	selections := make([]*int, len(session.selections))
	copy(selections, session.selections)
	session.mu.Unlock()

	// Останавливаем обратный отсчет; повторный вызов cancel безопасен
	session.cancel()
	m.sessions.Delete(session.ID)

	achieved, total := Score(session.Exam, selections)
	result := &entity.Result{
		ExamID:           session.Exam.ID,
		StudentID:        session.Student.ID,
		StudentLastname:  session.Student.Lastname,
		StudentFirstname: session.Student.Firstname,
		StudentGender:    session.Student.Gender,
		Score:            achieved,
		TotalPoints:      total,
		TimeUsedMinutes:  timeUsedMinutes(session.Exam, remaining),
		AutoSubmitted:    auto,
		Answers:          BuildAnswers(session.Exam, selections),
		SubmittedAt:      now,
	}

	if err := m.deps.ResultRepo.Save(result); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateAttempt) {
			return nil, err
		}
		log.Printf("[ExamSession] Ошибка сохранения результата сессии %s: %v", session.ID, err)
		return result, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	log.Printf("[ExamSession] Сессия %s сдана (auto=%v): %d/%d баллов, студент %s",
		session.ID, auto, achieved, total, session.Student.ID)
	return result, nil
}

// runCountdown ведет обратный отсчет сессии.
// Каждый тик пересчитывает остаток от EndTime, поэтому дрейф тикера
// не накапливается. По истечении времени сессия сдается автоматически.
func (m *Manager) runCountdown(ctx context.Context, session *Session) {
	ticker := time.NewTicker(m.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			remaining := time.Until(session.EndTime)
			if remaining <= 0 {
				log.Printf("[ExamSession] Время сессии %s истекло, автосдача", session.ID)
				if m.deps.Notifier != nil {
					m.deps.Notifier.SessionExpired(session.ID)
				}
				if _, err := m.finalize(session, true); err != nil {
					// ErrConflict означает, что студент успел сдать вручную
					log.Printf("[ExamSession] Автосдача сессии %s: %v", session.ID, err)
				}
				return
			}
			if m.deps.Notifier != nil {
				m.deps.Notifier.SessionTick(session.ID, int(remaining.Seconds()))
			}

		case <-ctx.Done():
			return
		}
	}
}

// getExamByCode возвращает экзамен по коду, с кешированием в Redis
func (m *Manager) getExamByCode(code string) (*entity.Exam, error) {
	cacheKey := "exam:code:" + code

	var cached entity.Exam
	if err := m.deps.CacheRepo.GetJSON(cacheKey, &cached); err == nil {
		return &cached, nil
	}

	exam, err := m.deps.ExamRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}

	if err := m.deps.CacheRepo.SetJSON(cacheKey, exam, m.config.ExamCacheTTL); err != nil {
		log.Printf("[ExamSession] Ошибка кеширования экзамена %s: %v", code, err)
	}
	return exam, nil
}

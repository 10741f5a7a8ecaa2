package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
	apperrors "github.com/souloukn/geomatiqueupm/internal/pkg/errors"
)

// ============================================================================
// Моки репозиториев (общие для тестов сервисов)
// ============================================================================

// MockExamRepo реализует repository.ExamRepository
type MockExamRepo struct {
	mock.Mock
}

func (m *MockExamRepo) Create(exam *entity.Exam) error {
	args := m.Called(exam)
	return args.Error(0)
}

func (m *MockExamRepo) GetByID(id string) (*entity.Exam, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Exam), args.Error(1)
}

func (m *MockExamRepo) GetByCode(code string) (*entity.Exam, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Exam), args.Error(1)
}

func (m *MockExamRepo) GetWithQuestions(id string) (*entity.Exam, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Exam), args.Error(1)
}

func (m *MockExamRepo) Update(exam *entity.Exam) error {
	args := m.Called(exam)
	return args.Error(0)
}

func (m *MockExamRepo) SetResultsPublished(examID string, published bool) error {
	args := m.Called(examID, published)
	return args.Error(0)
}

func (m *MockExamRepo) List(limit, offset int) ([]entity.Exam, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Exam), args.Error(1)
}

func (m *MockExamRepo) CodeExists(code string) (bool, error) {
	args := m.Called(code)
	return args.Bool(0), args.Error(1)
}

func (m *MockExamRepo) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockResultRepo реализует repository.ResultRepository
type MockResultRepo struct {
	mock.Mock
}

func (m *MockResultRepo) Save(result *entity.Result) error {
	args := m.Called(result)
	return args.Error(0)
}

func (m *MockResultRepo) HasAttempt(examID, studentID string) (bool, error) {
	args := m.Called(examID, studentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockResultRepo) GetByExam(examID string) ([]entity.Result, error) {
	args := m.Called(examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Result), args.Error(1)
}

func (m *MockResultRepo) GetByExamAndStudent(examID, studentID string) (*entity.Result, error) {
	args := m.Called(examID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Result), args.Error(1)
}

func (m *MockResultRepo) DeleteByExam(examID string) error {
	args := m.Called(examID)
	return args.Error(0)
}

// MockCacheRepo реализует repository.CacheRepository
type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepo) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepo) SetNX(key string, value interface{}, expiration time.Duration) (bool, error) {
	args := m.Called(key, value, expiration)
	return args.Bool(0), args.Error(1)
}

// validExam создает корректный экзамен для тестов
func validExam() *entity.Exam {
	return &entity.Exam{
		Title:           "Topographie — session de rattrapage",
		Subject:         "Topographie",
		DurationMinutes: 45,
		Questions: []entity.Question{
			{
				Text:   "Que mesure un théodolite ?",
				Points: 2,
				Options: entity.OptionArray{
					{Text: "Des angles", IsCorrect: true},
					{Text: "Des distances", IsCorrect: false},
				},
			},
		},
	}
}

// ============================================================================
// Тесты для ExamService
// ============================================================================

func TestExamService_CreateExam_Success(t *testing.T) {
	// Arrange
	examRepo := new(MockExamRepo)
	resultRepo := new(MockResultRepo)
	cacheRepo := new(MockCacheRepo)

	examRepo.On("CodeExists", mock.AnythingOfType("string")).Return(false, nil)
	examRepo.On("Create", mock.AnythingOfType("*entity.Exam")).Return(nil)

	service := NewExamService(examRepo, resultRepo, cacheRepo)
	exam := validExam()

	// Act
	err := service.CreateExam(exam)

	// Assert
	require.NoError(t, err)
	assert.Len(t, exam.ID, 36, "ID должен быть UUID")
	assert.Len(t, exam.Code, 8, "Код доступа — 8 символов")
	assert.False(t, exam.ResultsPublished, "Новый экзамен создается с неопубликованными результатами")
	assert.Equal(t, exam.ID, exam.Questions[0].ExamID)
	assert.Equal(t, 0, exam.Questions[0].Position)

	examRepo.AssertExpectations(t)
}

func TestExamService_CreateExam_CodeCollisionRetried(t *testing.T) {
	// Arrange: первый сгенерированный код занят
	examRepo := new(MockExamRepo)
	service := NewExamService(examRepo, new(MockResultRepo), new(MockCacheRepo))

	examRepo.On("CodeExists", mock.AnythingOfType("string")).Return(true, nil).Once()
	examRepo.On("CodeExists", mock.AnythingOfType("string")).Return(false, nil).Once()
	examRepo.On("Create", mock.AnythingOfType("*entity.Exam")).Return(nil)

	// Act
	err := service.CreateExam(validExam())

	// Assert
	require.NoError(t, err)
	examRepo.AssertNumberOfCalls(t, "CodeExists", 2)
}

func TestExamService_CreateExam_ValidationErrors(t *testing.T) {
	// Arrange
	service := NewExamService(new(MockExamRepo), new(MockResultRepo), new(MockCacheRepo))

	// Act & Assert: без названия
	noTitle := validExam()
	noTitle.Title = "  "
	assert.ErrorIs(t, service.CreateExam(noTitle), apperrors.ErrValidation)

	// Нулевая длительность
	noDuration := validExam()
	noDuration.DurationMinutes = 0
	assert.ErrorIs(t, service.CreateExam(noDuration), apperrors.ErrValidation)

	// Без вопросов
	noQuestions := validExam()
	noQuestions.Questions = nil
	assert.ErrorIs(t, service.CreateExam(noQuestions), apperrors.ErrValidation)

	// Меньше двух вариантов
	oneOption := validExam()
	oneOption.Questions[0].Options = entity.OptionArray{{Text: "Seul", IsCorrect: true}}
	assert.ErrorIs(t, service.CreateExam(oneOption), apperrors.ErrValidation)

	// Без правильного варианта
	noCorrect := validExam()
	noCorrect.Questions[0].Options = entity.OptionArray{
		{Text: "A", IsCorrect: false},
		{Text: "B", IsCorrect: false},
	}
	assert.ErrorIs(t, service.CreateExam(noCorrect), apperrors.ErrValidation)
}

func TestExamService_CreateExam_DefaultsApplied(t *testing.T) {
	// Arrange
	examRepo := new(MockExamRepo)
	examRepo.On("CodeExists", mock.AnythingOfType("string")).Return(false, nil)
	examRepo.On("Create", mock.AnythingOfType("*entity.Exam")).Return(nil)

	service := NewExamService(examRepo, new(MockResultRepo), new(MockCacheRepo))

	exam := validExam()
	exam.MaxAttempts = 0
	exam.Questions[0].Points = 0

	// Act
	err := service.CreateExam(exam)

	// Assert: умолчания — одна попытка, один балл
	require.NoError(t, err)
	assert.Equal(t, 1, exam.MaxAttempts)
	assert.Equal(t, 1, exam.Questions[0].Points)
}

func TestExamService_UpdateExam_PreservesCodeAndPublication(t *testing.T) {
	// Arrange: правка не должна менять код доступа и флаг публикации
	examRepo := new(MockExamRepo)
	cacheRepo := new(MockCacheRepo)

	existing := validExam()
	existing.ID = "exam-1"
	existing.Code = "GEO12345"
	existing.ResultsPublished = true

	examRepo.On("GetByID", "exam-1").Return(existing, nil)
	examRepo.On("Update", mock.AnythingOfType("*entity.Exam")).Return(nil)
	cacheRepo.On("Delete", "exam:code:GEO12345").Return(nil)

	service := NewExamService(examRepo, new(MockResultRepo), cacheRepo)

	updated := validExam()
	updated.ID = "exam-1"
	updated.Code = "HACKED00"
	updated.ResultsPublished = false
	updated.Title = "Topographie — version corrigée"

	// Act
	err := service.UpdateExam(updated)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "GEO12345", updated.Code, "Код доступа не меняется при правке")
	assert.True(t, updated.ResultsPublished, "Флаг публикации не меняется при правке")
	cacheRepo.AssertCalled(t, "Delete", "exam:code:GEO12345")
}

func TestExamService_UpdateExam_NotFound(t *testing.T) {
	// Arrange
	examRepo := new(MockExamRepo)
	examRepo.On("GetByID", "missing").Return(nil, apperrors.ErrNotFound)

	service := NewExamService(examRepo, new(MockResultRepo), new(MockCacheRepo))

	exam := validExam()
	exam.ID = "missing"

	// Act & Assert
	assert.ErrorIs(t, service.UpdateExam(exam), apperrors.ErrNotFound)
	examRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestExamService_DeleteExam_RemovesResults(t *testing.T) {
	// Arrange: удаление экзамена тянет за собой результаты и кеш
	examRepo := new(MockExamRepo)
	resultRepo := new(MockResultRepo)
	cacheRepo := new(MockCacheRepo)

	existing := validExam()
	existing.ID = "exam-1"
	existing.Code = "GEO12345"

	examRepo.On("GetByID", "exam-1").Return(existing, nil)
	resultRepo.On("DeleteByExam", "exam-1").Return(nil)
	examRepo.On("Delete", "exam-1").Return(nil)
	cacheRepo.On("Delete", "exam:code:GEO12345").Return(nil)

	service := NewExamService(examRepo, resultRepo, cacheRepo)

	// Act
	err := service.DeleteExam("exam-1")

	// Assert
	require.NoError(t, err)
	resultRepo.AssertCalled(t, "DeleteByExam", "exam-1")
	examRepo.AssertCalled(t, "Delete", "exam-1")
	cacheRepo.AssertCalled(t, "Delete", "exam:code:GEO12345")
}

func TestExamService_GetExamByCode_NormalizesCode(t *testing.T) {
	// Arrange: код приводится к верхнему регистру без пробелов
	examRepo := new(MockExamRepo)
	exam := validExam()
	exam.Code = "GEO12345"
	examRepo.On("GetByCode", "GEO12345").Return(exam, nil)

	service := NewExamService(examRepo, new(MockResultRepo), new(MockCacheRepo))

	// Act
	got, err := service.GetExamByCode("  geo12345 ")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "GEO12345", got.Code)
}

func TestExamService_ListExams_ClampsPagination(t *testing.T) {
	// Arrange
	examRepo := new(MockExamRepo)
	examRepo.On("List", 20, 0).Return([]entity.Exam{}, nil)

	service := NewExamService(examRepo, new(MockResultRepo), new(MockCacheRepo))

	// Act: некорректные параметры пагинации заменяются умолчаниями
	_, err := service.ListExams(-5, -10)

	// Assert
	require.NoError(t, err)
	examRepo.AssertCalled(t, "List", 20, 0)
}

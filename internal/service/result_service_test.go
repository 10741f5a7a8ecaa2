package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
	apperrors "github.com/souloukn/geomatiqueupm/internal/pkg/errors"
)

func TestResultService_StudentResult_NotPublished(t *testing.T) {
	// Arrange: результаты еще не опубликованы преподавателем
	examRepo := new(MockExamRepo)
	resultRepo := new(MockResultRepo)

	exam := validExam()
	exam.ID = "exam-1"
	exam.Code = "GEO12345"
	exam.ResultsPublished = false
	examRepo.On("GetByCode", "GEO12345").Return(exam, nil)

	service := NewResultService(examRepo, resultRepo, new(MockCacheRepo))

	// Act
	_, result, err := service.StudentResult("geo12345", "21005678")

	// Assert: до публикации результат недоступен, даже если он существует
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	resultRepo.AssertNotCalled(t, "GetByExamAndStudent", mock.Anything, mock.Anything)
}

func TestResultService_StudentResult_Published(t *testing.T) {
	// Arrange
	examRepo := new(MockExamRepo)
	resultRepo := new(MockResultRepo)

	exam := validExam()
	exam.ID = "exam-1"
	exam.Code = "GEO12345"
	exam.ResultsPublished = true
	examRepo.On("GetByCode", "GEO12345").Return(exam, nil)

	stored := &entity.Result{
		ExamID:      "exam-1",
		StudentID:   "21005678",
		Score:       2,
		TotalPoints: 3,
	}
	resultRepo.On("GetByExamAndStudent", "exam-1", "21005678").Return(stored, nil)

	service := NewResultService(examRepo, resultRepo, new(MockCacheRepo))

	// Act
	gotExam, gotResult, err := service.StudentResult("GEO12345", " 21005678 ")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "exam-1", gotExam.ID)
	assert.Equal(t, 2, gotResult.Score)
}

func TestResultService_StudentResult_NoAttempt(t *testing.T) {
	// Arrange: публикация включена, но студент не сдавал
	examRepo := new(MockExamRepo)
	resultRepo := new(MockResultRepo)

	exam := validExam()
	exam.ID = "exam-1"
	exam.Code = "GEO12345"
	exam.ResultsPublished = true
	examRepo.On("GetByCode", "GEO12345").Return(exam, nil)
	resultRepo.On("GetByExamAndStudent", "exam-1", "00000000").Return(nil, apperrors.ErrNotFound)

	service := NewResultService(examRepo, resultRepo, new(MockCacheRepo))

	// Act
	_, result, err := service.StudentResult("GEO12345", "00000000")

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResultService_SetPublished_InvalidatesCache(t *testing.T) {
	// Arrange
	examRepo := new(MockExamRepo)
	cacheRepo := new(MockCacheRepo)

	exam := validExam()
	exam.ID = "exam-1"
	exam.Code = "GEO12345"
	examRepo.On("GetByID", "exam-1").Return(exam, nil)
	examRepo.On("SetResultsPublished", "exam-1", true).Return(nil)
	cacheRepo.On("Delete", "exam:code:GEO12345").Return(nil)

	service := NewResultService(examRepo, new(MockResultRepo), cacheRepo)

	// Act
	err := service.SetPublished("exam-1", true)

	// Assert: кеш сбрасывается, чтобы студенты сразу видели флаг
	require.NoError(t, err)
	examRepo.AssertCalled(t, "SetResultsPublished", "exam-1", true)
	cacheRepo.AssertCalled(t, "Delete", "exam:code:GEO12345")
}

func TestResultService_SetPublished_ExamNotFound(t *testing.T) {
	// Arrange
	examRepo := new(MockExamRepo)
	examRepo.On("GetByID", "missing").Return(nil, apperrors.ErrNotFound)

	service := NewResultService(examRepo, new(MockResultRepo), new(MockCacheRepo))

	// Act & Assert
	assert.ErrorIs(t, service.SetPublished("missing", true), apperrors.ErrNotFound)
	examRepo.AssertNotCalled(t, "SetResultsPublished", mock.Anything, mock.Anything)
}

func TestResultService_ExamResults(t *testing.T) {
	// Arrange
	examRepo := new(MockExamRepo)
	resultRepo := new(MockResultRepo)

	exam := validExam()
	exam.ID = "exam-1"
	examRepo.On("GetWithQuestions", "exam-1").Return(exam, nil)
	resultRepo.On("GetByExam", "exam-1").Return([]entity.Result{
		{StudentID: "21005678", Score: 2, TotalPoints: 3},
		{StudentID: "21005679", Score: 1, TotalPoints: 3},
	}, nil)

	service := NewResultService(examRepo, resultRepo, new(MockCacheRepo))

	// Act
	gotExam, results, err := service.ExamResults("exam-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "exam-1", gotExam.ID)
	assert.Len(t, results, 2)
}

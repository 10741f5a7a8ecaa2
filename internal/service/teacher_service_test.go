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

func TestTeacherService_SaveInfo_RequiresFullName(t *testing.T) {
	// Arrange
	teacherRepo := new(MockTeacherRepo)
	service := NewTeacherService(teacherRepo, new(MockCacheRepo))

	// Act & Assert
	err := service.SaveInfo(&entity.TeacherInfo{FullName: "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	teacherRepo.AssertNotCalled(t, "SaveInfo", mock.Anything)
}

func TestTeacherService_SaveInfo_Success(t *testing.T) {
	// Arrange
	teacherRepo := new(MockTeacherRepo)
	teacherRepo.On("SaveInfo", mock.AnythingOfType("*entity.TeacherInfo")).Return(nil)

	service := NewTeacherService(teacherRepo, new(MockCacheRepo))

	// Act
	err := service.SaveInfo(&entity.TeacherInfo{
		FullName: "Pr. Benali Ahmed",
		Title:    "Professeur de géomatique",
		Email:    "prof@upm.ma",
	})

	// Assert
	require.NoError(t, err)
	teacherRepo.AssertExpectations(t)
}

func TestTeacherService_GetSettings_DefaultsWhenMissing(t *testing.T) {
	// Arrange: в кеше нет сохраненных настроек
	cacheRepo := new(MockCacheRepo)
	cacheRepo.On("GetJSON", settingsCacheKey, mock.Anything).Return(apperrors.ErrNotFound)

	service := NewTeacherService(new(MockTeacherRepo), cacheRepo)

	// Act
	settings, err := service.GetSettings()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "light", settings.Theme)
	assert.Equal(t, "fr", settings.Language)
}

func TestTeacherService_SaveSettings_ValidatesTheme(t *testing.T) {
	// Arrange
	service := NewTeacherService(new(MockTeacherRepo), new(MockCacheRepo))

	// Act & Assert
	err := service.SaveSettings(Settings{Theme: "neon"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTeacherService_SaveSettings_Success(t *testing.T) {
	// Arrange
	cacheRepo := new(MockCacheRepo)
	cacheRepo.On("SetJSON", settingsCacheKey, mock.Anything, time.Duration(0)).Return(nil)

	service := NewTeacherService(new(MockTeacherRepo), cacheRepo)

	// Act: пустой язык заменяется умолчанием
	err := service.SaveSettings(Settings{Theme: "dark"})

	// Assert
	require.NoError(t, err)
	cacheRepo.AssertExpectations(t)
}

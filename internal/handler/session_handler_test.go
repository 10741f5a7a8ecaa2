package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext создает *gin.Context для тестов с JSON body
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// ============================================================================
// Валидация запросов — не требует реальных сервисов:
// handler возвращает 400 до обращения к менеджеру сессий
// ============================================================================

func TestStartSession_ValidationErrors(t *testing.T) {
	handler := &SessionHandler{}

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{
			name:       "empty body",
			body:       nil,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing code",
			body: map[string]interface{}{
				"student": map[string]string{"id": "21005678", "lastname": "El Amrani", "firstname": "Yassine"},
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "code wrong length",
			body: map[string]interface{}{
				"code":    "ABC",
				"student": map[string]string{"id": "21005678", "lastname": "El Amrani", "firstname": "Yassine"},
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing student id",
			body: map[string]interface{}{
				"code":    "GEO12345",
				"student": map[string]string{"lastname": "El Amrani", "firstname": "Yassine"},
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			c, w := newTestGinContext(http.MethodPost, "/api/sessions", tt.body)

			// Act
			handler.StartSession(c)

			// Assert
			assert.Equal(t, tt.wantStatus, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Contains(t, resp, "error")
		})
	}
}

func TestSubmit_RequiresConfirmation(t *testing.T) {
	// Arrange: сдача без подтверждения не меняет состояние сессии
	handler := &SessionHandler{}
	c, w := newTestGinContext(http.MethodPost, "/api/sessions/abc/submit", map[string]interface{}{
		"confirmed": false,
	})
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	// Act
	handler.Submit(c)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, false, resp["submitted"])
	assert.Equal(t, true, resp["confirmation_required"])
}

package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessWrapsData(t *testing.T) {
	w := httptest.NewRecorder()

	Success(w, map[string]string{"id": "d1"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "d1", body.Data["id"])
}

func TestErrorWithCode(t *testing.T) {
	w := httptest.NewRecorder()

	ErrorWithCode(w, http.StatusNotFound, "DEBT_NOT_FOUND", "Debt not found", errors.New("no rows"))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "DEBT_NOT_FOUND", body.Code)
	assert.Equal(t, "Debt not found", body.Message)
	assert.Equal(t, "no rows", body.Error)
}

func TestInternalServerError_HidesCause(t *testing.T) {
	w := httptest.NewRecorder()

	InternalServerError(w, "DATABASE_ERROR", "database operation failed")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "DATABASE_ERROR", body.Code)
	assert.Equal(t, "database operation failed", body.Message)
	assert.Equal(t, "Internal Server Error", body.Error)
}

func TestNotFound(t *testing.T) {
	w := httptest.NewRecorder()

	NotFound(w, "DEBT_NOT_FOUND", "Debt with ID abc not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"DEBT_NOT_FOUND"`)
}

func TestJSONMiddleware(t *testing.T) {
	h := JSONMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/debts", nil))

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	h := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/debts", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), OwnerHeader)
}

func TestLoggingMiddleware_KeepsStatus(t *testing.T) {
	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
}

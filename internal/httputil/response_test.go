package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/clip/internal/errors"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
		retryAfter     string
	}{
		{
			name:           "invalid input is verbatim",
			err:            apperrors.Wrap(apperrors.ErrInvalidInput, "missing required fields: ciphertext and iv"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_input",
			expectedMsg:    "missing required fields: ciphertext and iv",
		},
		{
			name:           "not found has a fixed message",
			err:            apperrors.Wrap(apperrors.ErrNotFound, "row 42 missing"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "not_found",
			expectedMsg:    MessageNotFound,
		},
		{
			name:           "unavailable sets retry-after",
			err:            apperrors.Wrap(apperrors.ErrUnavailable, "redis down"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "service_unavailable",
			expectedMsg:    "The secret store is temporarily unavailable",
			retryAfter:     "1",
		},
		{
			name:           "too many requests sets retry-after",
			err:            apperrors.ErrTooManyRequests,
			expectedStatus: http.StatusTooManyRequests,
			expectedCode:   "rate_limit_exceeded",
			expectedMsg:    "Too many requests. Please retry after the specified delay.",
			retryAfter:     "1",
		},
		{
			name:           "unknown errors are hidden",
			err:            errors.New("pq: relation does not exist"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "internal_error",
			expectedMsg:    "An internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()

			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.retryAfter, w.Header().Get("Retry-After"))

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedCode, response.Error)
			assert.Equal(t, tt.expectedMsg, response.Message)
			assert.True(t, c.IsAborted())
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext()

		HandleErrorGin(c, nil, nil)

		assert.Empty(t, w.Body.String())
		assert.False(t, c.IsAborted())
	})
}

func TestHandleBadRequestGin(t *testing.T) {
	c, w := newTestContext()

	HandleBadRequestGin(c, errors.New("unexpected EOF"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"bad_request","message":"Request body must be a JSON object"}`, w.Body.String())
}

package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestSuccessHelpers_WhenCalled_ThenWrapDataWithStatus(t *testing.T) {
	tests := []struct {
		name    string
		send    func(c *gin.Context)
		status  int
		message string
	}{
		{"ok", func(c *gin.Context) { OK(c, gin.H{"resident_id": "CB-001"}) }, http.StatusOK, ""},
		{"created", func(c *gin.Context) { Created(c, gin.H{"resident_id": "CB-001"}, "event logged") }, http.StatusCreated, "event logged"},
		{"unavailable", func(c *gin.Context) { ServiceUnavailable(c, gin.H{"resident_id": "CB-001"}, "degraded") }, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext()

			tt.send(c)

			assert.Equal(t, tt.status, w.Code)
			var body struct {
				Data    map[string]string `json:"data"`
				Message string            `json:"message"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "CB-001", body.Data["resident_id"])
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestErrorHelpers_WhenCalled_ThenWriteStatusAndError(t *testing.T) {
	tests := []struct {
		name   string
		send   func(c *gin.Context)
		status int
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "failed", []string{"kind"}) }, http.StatusBadRequest},
		{"not found", func(c *gin.Context) { NotFound(c, "failed") }, http.StatusNotFound},
		{"internal", func(c *gin.Context) { InternalServerError(c, "failed") }, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext()

			tt.send(c)

			assert.Equal(t, tt.status, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "failed", body.Error)
			assert.NotEmpty(t, body.TraceID)
		})
	}
}

func TestError_WhenRequestIDSet_ThenUsesItAsTraceID(t *testing.T) {
	// Arrange
	c, w := newContext()
	c.Set(requestIDKey, "req-42")

	// Act
	BadRequest(c, "validation failed", "unsupported kind")

	// Assert
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "req-42", body.TraceID)
	assert.Equal(t, "unsupported kind", body.Details)
}

func TestGetRequestID_WhenMissingOrWrongType_ThenMintsUUID(t *testing.T) {
	// Arrange
	missing, _ := newContext()
	wrongType, _ := newContext()
	wrongType.Set(requestIDKey, 42)

	// Act & Assert
	for _, c := range []*gin.Context{missing, wrongType} {
		_, err := uuid.Parse(GetRequestID(c))
		assert.NoError(t, err)
	}
}

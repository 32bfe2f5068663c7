package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

func record(fn func(c *gin.Context)) (*httptest.ResponseRecorder, Envelope) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	fn(c)

	var env Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestOK(t *testing.T) {
	w, env := record(func(c *gin.Context) {
		OK(c, "done", gin.H{"id": 1})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "done", env.Message)
	assert.NotNil(t, env.Data)
}

func TestErrorMapsClientErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", apperr.Validation("quantity must be positive"), http.StatusBadRequest, "quantity must be positive"},
		{"not found", apperr.NotFound("order not found"), http.StatusNotFound, "order not found"},
		{"conflict", apperr.Conflict("coupon usage limit reached"), http.StatusConflict, "coupon usage limit reached"},
		{"forbidden", apperr.Forbidden("admin access required"), http.StatusForbidden, "admin access required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := record(func(c *gin.Context) {
				Error(c, tt.err)
			})

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantMsg, env.Message)
		})
	}
}

func TestErrorHidesInternalDetails(t *testing.T) {
	w, env := record(func(c *gin.Context) {
		Error(c, apperr.Internal(errors.New("pq: connection refused"), "failed to query orders"))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Internal server error", env.Message)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("no token"), http.StatusUnauthorized},
		{"forbidden", Forbidden("admins only"), http.StatusForbidden},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"conflict", Conflict("duplicate"), http.StatusConflict},
		{"upstream", Upstream(errors.New("timeout"), "gateway down"), http.StatusInternalServerError},
		{"internal", Internal(errors.New("boom"), "db failed"), http.StatusInternalServerError},
		{"plain error", errors.New("anything"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	base := NotFound("order not found")
	wrapped := fmt.Errorf("handling request: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause, "failed to query orders")

	assert.Equal(t, "failed to query orders: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(Validation("bad")))
	assert.True(t, IsClientError(Conflict("dup")))
	assert.False(t, IsClientError(Internal(errors.New("x"), "boom")))
	assert.False(t, IsClientError(errors.New("unknown")))
}

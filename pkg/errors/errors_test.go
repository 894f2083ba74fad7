package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("wrong role"), http.StatusForbidden},
		{NotFound("patient"), http.StatusNotFound},
		{Conflict("overlap"), http.StatusConflict},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.HTTPStatus(), tt.err.Message)
	}
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "patient not found", NotFound("patient").Error())
}

func TestWithField(t *testing.T) {
	err := Conflict("insufficient balance").
		WithField("balance", int64(100)).
		WithField("requested", int64(250))

	assert.Equal(t, int64(100), err.Fields["balance"])
	assert.Equal(t, int64(250), err.Fields["requested"])
}

func TestAsAppErrorUnwrapsChain(t *testing.T) {
	inner := NotFound("form")
	wrapped := fmt.Errorf("failed to load form: %w", inner)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrNotFound, appErr.Code)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection reset")
	err := Internal(cause)

	assert.Equal(t, "internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
}

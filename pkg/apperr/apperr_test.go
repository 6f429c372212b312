package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
		status   int
	}{
		{"validation", Validation("Reason is required for write actions"), KindValidation, http.StatusBadRequest},
		{"forbidden", Forbidden("Command blocked by policy"), KindAuthorization, http.StatusForbidden},
		{"not found", NotFound("session not found"), KindNotFound, http.StatusNotFound},
		{"transport", Transport("collector failed", errors.New("eof")), KindTransport, http.StatusBadGateway},
		{"wrapped", fmt.Errorf("push: %w", Forbidden("x")), KindAuthorization, http.StatusForbidden},
		{"plain", errors.New("boom"), KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NotFound("approval not found"))

	assert.True(t, errors.Is(err, NotFound("approval not found")))
	assert.True(t, errors.Is(err, &Error{Kind: KindNotFound}))
	assert.False(t, errors.Is(err, NotFound("policy not found")))
	assert.False(t, errors.Is(err, Forbidden("approval not found")))
}

func TestTransportUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Transport("collector failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "collector failed", err.Error())
}

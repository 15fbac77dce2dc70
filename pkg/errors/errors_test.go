package errors

import (
	stderrors "errors"
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
		{"validation", Validation("missing fields", "phone"), http.StatusBadRequest},
		{"not found", NotFound("doctor", nil), http.StatusNotFound},
		{"conflict", Conflict("slot taken", nil), http.StatusConflict},
		{"unauthorized", Unauthorized("", nil), http.StatusUnauthorized},
		{"internal", Internal(stderrors.New("db down")), http.StatusInternalServerError},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("create booking: %w", Conflict("slot taken", nil)), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestValidationMessageListsFields(t *testing.T) {
	err := Validation("missing required fields", "phone", "email")

	assert.Equal(t, "missing required fields: phone, email", err.Error())
	assert.Equal(t, []string{"phone", "email"}, err.Fields)
	assert.True(t, IsValidation(err))
	assert.False(t, IsConflict(err))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("booking", stderrors.New("no rows")))

	assert.True(t, IsNotFound(err))
	assert.Equal(t, "not_found", CodeOf(err).String())
	assert.False(t, IsNotFound(nil))
}

func TestInternalHidesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Internal(cause)

	assert.Equal(t, "internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewNotFoundError("answer not found", nil), http.StatusNotFound},
		{NewValidationError("invalid vote type", nil), http.StatusBadRequest},
		{NewAuthError("token expired", nil), http.StatusUnauthorized},
		{NewForbiddenError("not your answer", nil), http.StatusForbidden},
		{NewConflictError("email taken", nil), http.StatusConflict},
		{NewDatabaseError("query failed", errors.New("boom")), http.StatusInternalServerError},
		{New(UnknownError, "?", nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.StatusCode(), tt.err.Message)
	}
}

func TestWrappedErrorsAreRecognized(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("cast vote: %w", NewDatabaseError("failed to insert vote", cause))

	assert.True(t, IsDatabase(err))
	assert.False(t, IsNotFound(err))
	assert.ErrorIs(t, err, cause)

	appErr, ok := FromError(err)
	assert.True(t, ok)
	assert.Equal(t, "failed to insert vote", appErr.ToResponse().Error)
	assert.Equal(t, "failed to insert vote: connection reset", appErr.Error())
}

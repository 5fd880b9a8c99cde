package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFound("book %s not found", "b1")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "book b1 not found", err.Error())
}

func TestError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("save review: %w", Conflict("duplicate review"))

	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, CodeConflict, CodeOf(err))
	assert.Equal(t, "duplicate review", MessageOf(err))
}

func TestError_WithCause(t *testing.T) {
	err := ErrInternal.WithCause(context.DeadlineExceeded)

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, errors.Is(err, ErrInternal))
	assert.Equal(t, "internal error: context deadline exceeded", err.Error())
}

func TestCodeOf_PlainError(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.Equal(t, "Internal server error", MessageOf(err))
}

func TestCode_HTTPStatus(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, c.code.HTTPStatus(), c.code)
	}
}

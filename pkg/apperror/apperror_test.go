package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("note")))
	assert.Equal(t, KindForbidden, KindOf(fmt.Errorf("wrapped: %w", Forbidden("nope"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.True(t, Is(Conflict("dup"), KindConflict))
	assert.False(t, Is(nil, KindConflict))
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "note not found", NotFound("note").Error())
	assert.Equal(t, "invalid credentials", InvalidCredentials().Error())

	cause := errors.New("connection refused")
	err := Internal("failed to create note", cause)
	assert.Equal(t, "failed to create note: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:         http.StatusBadRequest,
		KindConflict:           http.StatusConflict,
		KindInvalidCredentials: http.StatusUnauthorized,
		KindUnauthorized:       http.StatusUnauthorized,
		KindForbidden:          http.StatusForbidden,
		KindNotFound:           http.StatusNotFound,
		KindUnsupportedType:    http.StatusUnsupportedMediaType,
		KindTooLarge:           http.StatusRequestEntityTooLarge,
		KindInternal:           http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, HTTPStatus(kind), string(kind))
	}
}

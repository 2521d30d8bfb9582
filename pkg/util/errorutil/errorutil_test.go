package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	wrapped := fmt.Errorf("handler: %w", NewNotFound("ticket", map[string]any{"id": "7"}))
	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, "ticket not found", de.Message)
	assert.Equal(t, "7", de.Details["id"])

	de = ToDomainError(fiber.NewError(http.StatusMethodNotAllowed, "nope"))
	assert.Equal(t, http.StatusMethodNotAllowed, de.HTTPStatus)
	assert.Equal(t, "nope", de.Message)

	cause := errors.New("boom")
	de = ToDomainError(cause)
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.ErrorIs(t, de, cause)
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := NewUnavailable("ticket source unavailable", cause)
	de := ToDomainError(err)
	assert.Equal(t, http.StatusServiceUnavailable, de.HTTPStatus)
	assert.Equal(t, "ticket source unavailable: dial tcp: refused", err.Error())
}

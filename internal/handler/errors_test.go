package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorResponse(t *testing.T) {
	t.Run("status error passes through", func(t *testing.T) {
		code, message := errorResponse(NewStatusError(http.StatusBadRequest, "bad version id"))
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "bad version id", message)
	})

	t.Run("wrapped status error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("handling turn: %w", NewStatusError(http.StatusNotFound, ""))
		code, message := errorResponse(err)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, http.StatusText(http.StatusNotFound), message)
	})

	t.Run("unknown errors stay generic", func(t *testing.T) {
		code, message := errorResponse(errors.New("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "something went wrong", message)
	})
}

package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"agroskills-platform/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	t.Run("Should return code of wrapped AppError", func(t *testing.T) {
		err := fmt.Errorf("apply: %w", apperror.Conflict("already applied"))
		assert.Equal(t, http.StatusConflict, apperror.StatusOf(err))
	})

	t.Run("Should default to 500 for plain errors", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, apperror.StatusOf(errors.New("boom")))
	})

	t.Run("Should unwrap the cause of Internal", func(t *testing.T) {
		cause := errors.New("db down")
		assert.ErrorIs(t, apperror.Internal(cause), cause)
	})
}

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"agroskills-platform/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("unreachable") }

	t.Run("Redis outage keeps the service healthy", func(t *testing.T) {
		status, ok := usecase.NewHealthUsecase(map[string]usecase.Pinger{"database": up, "redis": down}).Check(context.Background())
		assert.True(t, ok)
		assert.Equal(t, "down", status["redis"])
		assert.Equal(t, "ok", status["status"])
	})

	t.Run("Database outage degrades the service", func(t *testing.T) {
		status, ok := usecase.NewHealthUsecase(map[string]usecase.Pinger{"database": down, "storage": nil}).Check(context.Background())
		assert.False(t, ok)
		assert.Equal(t, "degraded", status["status"])
		assert.Equal(t, "disabled", status["storage"])
	})
}

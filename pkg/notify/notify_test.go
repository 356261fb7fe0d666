package notify_test

import (
	"testing"
	"time"

	"agroskills-platform/pkg/clock"
	"agroskills-platform/pkg/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenter(t *testing.T) {
	start := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)

	t.Run("Should auto-dismiss after the default duration", func(t *testing.T) {
		clk := clock.NewFake(start)
		n := notify.New(notify.WithClock(clk))
		id := n.Success("Pronto", "Resposta enviada com sucesso")

		active := n.Active()
		require.Len(t, active, 1)
		assert.Equal(t, id, active[0].ID)
		assert.Equal(t, notify.Success, active[0].Kind)
		assert.Equal(t, notify.DefaultDuration, active[0].Duration)

		clk.Advance(notify.DefaultDuration - time.Millisecond)
		assert.Len(t, n.Active(), 1)
		clk.Advance(time.Millisecond)
		assert.Empty(t, n.Active())
	})

	t.Run("Should honour a custom duration and sticky toasts", func(t *testing.T) {
		clk := clock.NewFake(start)
		n := notify.New(notify.WithClock(clk))
		n.Show(notify.Warning, "Atenção", "curto", time.Second)
		sticky := n.Show(notify.Error, "Erro", "fica", notify.Sticky)

		clk.Advance(time.Minute)
		active := n.Active()
		require.Len(t, active, 1)
		assert.Equal(t, sticky, active[0].ID)
		assert.True(t, n.Dismiss(sticky))
		assert.False(t, n.Dismiss(sticky))
	})

	t.Run("Should stop the timer on manual dismiss", func(t *testing.T) {
		clk := clock.NewFake(start)
		n := notify.New(notify.WithClock(clk))
		id := n.Info("Info", "x")
		assert.Equal(t, 1, clk.Pending())
		n.Dismiss(id)
		assert.Zero(t, clk.Pending())
	})

	t.Run("Should notify subscribers on every change", func(t *testing.T) {
		clk := clock.NewFake(start)
		n := notify.New(notify.WithClock(clk), notify.WithDefaultDuration(2*time.Second))
		var sizes []int
		cancel := n.Subscribe(func(list []notify.Toast) { sizes = append(sizes, len(list)) })

		n.Info("a", "")
		n.Info("b", "")
		clk.Advance(2 * time.Second)
		assert.Equal(t, []int{1, 2, 1, 0}, sizes)

		cancel()
		n.Info("c", "")
		assert.Len(t, sizes, 4)
		n.Clear()
		assert.Empty(t, n.Active())
	})
}

package clock_test

import (
	"testing"
	"time"

	"agroskills-platform/pkg/clock"

	"github.com/stretchr/testify/assert"
)

func TestFake(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Should fire timers in order and only once", func(t *testing.T) {
		c := clock.NewFake(start)
		var fired []string
		c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
		c.AfterFunc(time.Second, func() { fired = append(fired, "a") })
		stopped := c.AfterFunc(time.Second, func() { fired = append(fired, "x") })
		assert.True(t, stopped.Stop())
		assert.False(t, stopped.Stop())

		c.Advance(1500 * time.Millisecond)
		assert.Equal(t, []string{"a"}, fired)
		c.Advance(10 * time.Second)
		assert.Equal(t, []string{"a", "b"}, fired)
		assert.Equal(t, start.Add(11500*time.Millisecond), c.Now())
		assert.Zero(t, c.Pending())
	})

	t.Run("Should tick every period", func(t *testing.T) {
		c := clock.NewFake(start)
		tk := c.NewTicker(time.Second)
		c.Advance(time.Second)
		assert.Equal(t, start.Add(time.Second), <-tk.C())
		c.Advance(time.Second)
		assert.Equal(t, start.Add(2*time.Second), <-tk.C())
		tk.Stop()
		c.Advance(time.Second)
		select {
		case <-tk.C():
			t.Fatal("stopped ticker fired")
		default:
		}
	})
}

package faceanalysis_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"agroskills-platform/pkg/clock"
	"agroskills-platform/pkg/faceanalysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func happy(age float64) *faceanalysis.Detection {
	return &faceanalysis.Detection{
		Age:         age,
		Gender:      "female",
		Expressions: map[string]float64{"happy": 0.8, "neutral": 0.15, "sad": 0.05},
	}
}

func TestSampleOnce(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	clk := clock.NewFake(start)
	calls := 0
	det := faceanalysis.DetectorFunc(func(ctx context.Context) (*faceanalysis.Detection, error) {
		calls++
		switch calls {
		case 2:
			return nil, faceanalysis.ErrNoFace
		case 3:
			return nil, errors.New("model not loaded")
		}
		return happy(float64(20 + calls)), nil
	})
	s := faceanalysis.NewSampler(det, faceanalysis.WithClock(clk), faceanalysis.WithHistory(3))

	for i := 0; i < 6; i++ {
		s.SampleOnce(context.Background())
		clk.Advance(time.Second)
	}

	h := s.History()
	require.Len(t, h, 3, "history is bounded")
	assert.Equal(t, []float64{24, 25, 26}, []float64{h[0].Age, h[1].Age, h[2].Age})
	assert.Equal(t, "happy", h[0].Expression)
	assert.InDelta(t, 0.8, h[0].Confidence, 1e-9)

	latest, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, 26.0, latest.Age)

	since := s.Since(start.Add(5 * time.Second))
	require.Len(t, since, 1)
	assert.Equal(t, 26.0, since[0].Age)

	s.Reset()
	_, ok = s.Latest()
	assert.False(t, ok)
}

func TestSamplerLoop(t *testing.T) {
	clk := clock.NewFake(time.Now())
	var calls atomic.Int32
	det := faceanalysis.DetectorFunc(func(ctx context.Context) (*faceanalysis.Detection, error) {
		calls.Add(1)
		return happy(30), nil
	})
	s := faceanalysis.NewSampler(det, faceanalysis.WithClock(clk))

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), faceanalysis.ErrRunning)
	clk.BlockUntil(1)

	clk.Advance(time.Second)
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	clk.Advance(time.Second)
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	s.Stop()
	assert.False(t, s.Running())
	assert.Zero(t, clk.Pending())
	assert.Len(t, s.History(), 2)
}

func TestDominant(t *testing.T) {
	name, p := faceanalysis.Dominant(map[string]float64{"angry": 0.4, "neutral": 0.4, "sad": 0.2})
	assert.Equal(t, "angry", name)
	assert.Equal(t, 0.4, p)

	name, _ = faceanalysis.Dominant(nil)
	assert.Empty(t, name)
}

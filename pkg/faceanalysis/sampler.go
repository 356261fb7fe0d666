// Package faceanalysis samples a face detector at a fixed interval while an
// answer is being recorded. Readings are advisory: a failed detection just
// skips that tick.
package faceanalysis

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/clock"
)

const (
	DefaultInterval = time.Second
	DefaultHistory  = 120
)

var (
	ErrNoFace  = errors.New("faceanalysis: no face in frame")
	ErrRunning = errors.New("faceanalysis: sampler already running")
)

// Detection is what a detector reports for the current frame.
type Detection struct {
	Age               float64
	Gender            string
	GenderProbability float64
	Expressions       map[string]float64
}

// Detector inspects the current video frame.
type Detector interface {
	Detect(ctx context.Context) (*Detection, error)
}

type DetectorFunc func(ctx context.Context) (*Detection, error)

func (f DetectorFunc) Detect(ctx context.Context) (*Detection, error) { return f(ctx) }

type Sampler struct {
	detector Detector
	clock    clock.Clock
	interval time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	history []domain.FaceSample
	next    int
	full    bool
	cancel  context.CancelFunc
	done    chan struct{}
}

type Option func(*Sampler)

func WithClock(c clock.Clock) Option { return func(s *Sampler) { s.clock = c } }

func WithInterval(d time.Duration) Option {
	return func(s *Sampler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithHistory bounds how many recent samples are kept.
func WithHistory(n int) Option {
	return func(s *Sampler) {
		if n > 0 {
			s.history = make([]domain.FaceSample, n)
		}
	}
}

func WithLogger(l *slog.Logger) Option { return func(s *Sampler) { s.log = l } }

func NewSampler(d Detector, opts ...Option) *Sampler {
	s := &Sampler{
		detector: d,
		clock:    clock.Real{},
		interval: DefaultInterval,
		log:      slog.Default(),
		history:  make([]domain.FaceSample, DefaultHistory),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins sampling until Stop is called or ctx ends.
func (s *Sampler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return ErrRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	ticker := s.clock.NewTicker(s.interval)
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				s.SampleOnce(ctx)
			}
		}
	}()
	return nil
}

// Stop halts sampling and waits for the loop to exit. Collected samples are
// kept.
func (s *Sampler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Sampler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// SampleOnce runs the detector a single time. It reports whether a sample
// was stored.
func (s *Sampler) SampleOnce(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	det, err := s.detector.Detect(ctx)
	if err != nil || det == nil {
		if err != nil && !errors.Is(err, ErrNoFace) && ctx.Err() == nil {
			s.log.Debug("face detection failed", "error", err)
		}
		return false
	}
	s.push(toSample(det, s.clock.Now()))
	return true
}

func toSample(d *Detection, at time.Time) domain.FaceSample {
	expr, conf := Dominant(d.Expressions)
	exprs := make(map[string]float64, len(d.Expressions))
	for k, v := range d.Expressions {
		exprs[k] = v
	}
	return domain.FaceSample{
		Timestamp:         at.UnixMilli(),
		Age:               d.Age,
		Gender:            d.Gender,
		GenderProbability: d.GenderProbability,
		Expression:        expr,
		Confidence:        conf,
		Expressions:       exprs,
	}
}

// Dominant returns the most probable expression. Ties go to the
// alphabetically first name so the result is stable.
func Dominant(expressions map[string]float64) (string, float64) {
	var best string
	bestP := -1.0
	for name, p := range expressions {
		if p > bestP || (p == bestP && name < best) {
			best, bestP = name, p
		}
	}
	if best == "" {
		return "", 0
	}
	return best, bestP
}

func (s *Sampler) push(sample domain.FaceSample) {
	s.mu.Lock()
	s.history[s.next] = sample
	s.next = (s.next + 1) % len(s.history)
	if s.next == 0 {
		s.full = true
	}
	s.mu.Unlock()
}

// History returns the retained samples, oldest first.
func (s *Sampler) History() []domain.FaceSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.full {
		return append([]domain.FaceSample(nil), s.history[:s.next]...)
	}
	out := make([]domain.FaceSample, 0, len(s.history))
	out = append(out, s.history[s.next:]...)
	return append(out, s.history[:s.next]...)
}

// Latest returns the newest sample.
func (s *Sampler) Latest() (domain.FaceSample, bool) {
	h := s.History()
	if len(h) == 0 {
		return domain.FaceSample{}, false
	}
	return h[len(h)-1], true
}

// Since returns the samples taken at or after t.
func (s *Sampler) Since(t time.Time) []domain.FaceSample {
	from := t.UnixMilli()
	var out []domain.FaceSample
	for _, sample := range s.History() {
		if sample.Timestamp >= from {
			out = append(out, sample)
		}
	}
	return out
}

// Reset drops every retained sample.
func (s *Sampler) Reset() {
	s.mu.Lock()
	s.next = 0
	s.full = false
	s.mu.Unlock()
}

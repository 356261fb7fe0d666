package recorder

import (
	"context"
	"log/slog"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/client"
	"agroskills-platform/pkg/clock"
)

const (
	DefaultPollInterval = 2 * time.Second
	DefaultPollAttempts = 30
)

type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeTimeout   Outcome = "timeout"
	OutcomeCancelled Outcome = "cancelled"
)

// StatusAPI is the status endpoint of an uploaded answer.
type StatusAPI interface {
	ResponseStatus(ctx context.Context, interviewID, responseID int64) client.Result[*domain.ResponseStatus]
}

// Notifier pushes analysis updates when the backend supports it. Updates
// may return nil, in which case only polling is used.
type Notifier interface {
	Updates(ctx context.Context, interviewID, responseID int64) <-chan domain.ResponseStatus
}

type PollConfig struct {
	Interval time.Duration
	Attempts int
}

func (c PollConfig) withDefaults() PollConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultPollInterval
	}
	if c.Attempts <= 0 {
		c.Attempts = DefaultPollAttempts
	}
	return c
}

type PollResult struct {
	Outcome  Outcome
	Status   *domain.ResponseStatus
	Attempts int
}

// Poller waits for an answer's analysis with a fixed interval and a fixed
// attempt budget. There is no backoff.
type Poller struct {
	api      StatusAPI
	clock    clock.Clock
	cfg      PollConfig
	notifier Notifier
	log      *slog.Logger
}

func NewPoller(api StatusAPI, clk clock.Clock, cfg PollConfig, notifier Notifier, log *slog.Logger) *Poller {
	if clk == nil {
		clk = clock.Real{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Poller{api: api, clock: clk, cfg: cfg.withDefaults(), notifier: notifier, log: log}
}

// Wait returns once the analysis completes or fails, the budget runs out,
// or ctx ends. The last status seen is always returned.
func (p *Poller) Wait(ctx context.Context, interviewID, responseID int64) PollResult {
	var push <-chan domain.ResponseStatus
	if p.notifier != nil {
		push = p.notifier.Updates(ctx, interviewID, responseID)
	}

	var last *domain.ResponseStatus
	for attempt := 1; attempt <= p.cfg.Attempts; attempt++ {
		tick := make(chan struct{})
		timer := p.clock.AfterFunc(p.cfg.Interval, func() { close(tick) })

		// Pushed updates never reset the tick, so the budget stays
		// Attempts*Interval however chatty the notifier is.
	wait:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return PollResult{Outcome: OutcomeCancelled, Status: last, Attempts: attempt - 1}
			case st, ok := <-push:
				if !ok {
					push = nil
					continue
				}
				last = &st
				if out, done := terminal(st.Status); done {
					timer.Stop()
					return PollResult{Outcome: out, Status: last, Attempts: attempt - 1}
				}
			case <-tick:
				break wait
			}
		}

		res := p.api.ResponseStatus(ctx, interviewID, responseID)
		if res.Error != nil {
			p.log.Debug("analysis status poll failed",
				"interview_id", interviewID,
				"response_id", responseID,
				"attempt", attempt,
				"error", res.Error,
			)
			continue
		}
		if res.Data == nil {
			continue
		}
		last = res.Data
		if out, done := terminal(res.Data.Status); done {
			return PollResult{Outcome: out, Status: last, Attempts: attempt}
		}
	}

	p.log.Info("analysis still pending after poll budget",
		"interview_id", interviewID,
		"response_id", responseID,
		"attempts", p.cfg.Attempts,
	)
	return PollResult{Outcome: OutcomeTimeout, Status: last, Attempts: p.cfg.Attempts}
}

func terminal(status string) (Outcome, bool) {
	switch status {
	case domain.ProcessingCompleted:
		return OutcomeCompleted, true
	case domain.ProcessingFailed:
		return OutcomeFailed, true
	}
	return OutcomePending, false
}

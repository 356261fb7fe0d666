package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"agroskills-platform/internal/domain"
)

// applyTracker mirrors the "one candidacy per job" rule locally so a repeat
// click never reaches the network.
type applyTracker struct {
	mu       sync.Mutex
	applied  map[int64]struct{}
	inflight map[int64]struct{}
}

func newApplyTracker() *applyTracker {
	return &applyTracker{
		applied:  make(map[int64]struct{}),
		inflight: make(map[int64]struct{}),
	}
}

func (t *applyTracker) begin(jobID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.applied[jobID]; ok {
		return ErrAlreadyApplied
	}
	if _, ok := t.inflight[jobID]; ok {
		return ErrApplyInProgress
	}
	t.inflight[jobID] = struct{}{}
	return nil
}

func (t *applyTracker) finish(jobID int64, applied bool) {
	t.mu.Lock()
	delete(t.inflight, jobID)
	if applied {
		t.applied[jobID] = struct{}{}
	}
	t.mu.Unlock()
}

func (t *applyTracker) mark(jobIDs ...int64) {
	t.mu.Lock()
	for _, id := range jobIDs {
		t.applied[id] = struct{}{}
	}
	t.mu.Unlock()
}

func (t *applyTracker) has(jobID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.applied[jobID]
	return ok
}

func (t *applyTracker) reset() {
	t.mu.Lock()
	t.applied = make(map[int64]struct{})
	t.inflight = make(map[int64]struct{})
	t.mu.Unlock()
}

// HasApplied reports whether the signed-in user is known to have applied.
func (c *Client) HasApplied(jobID int64) bool {
	return c.applies.has(jobID)
}

// Apply submits a candidacy. Jobs already applied to fail with
// ErrAlreadyApplied and a concurrent duplicate with ErrApplyInProgress,
// neither touching the network. A 409 from the server is folded into
// ErrAlreadyApplied.
func (c *Client) Apply(ctx context.Context, jobID int64, message string) Result[*domain.Candidacy] {
	if err := c.applies.begin(jobID); err != nil {
		return failed[*domain.Candidacy](err)
	}
	res := doJSON[*domain.Candidacy](ctx, c, http.MethodPost, "/api/candidaturas",
		domain.CreateCandidacyRequest{VagaID: jobID, Mensagem: message}, authRequired)

	switch {
	case res.Error == nil:
		c.applies.finish(jobID, true)
	case StatusOf(res.Error) == http.StatusConflict:
		c.applies.finish(jobID, true)
		return failed[*domain.Candidacy](fmt.Errorf("%w: %w", ErrAlreadyApplied, res.Error))
	default:
		c.applies.finish(jobID, false)
	}
	return res
}

// MyCandidacies lists the user's candidacies and remembers their jobs as
// applied.
func (c *Client) MyCandidacies(ctx context.Context, userID string) Result[[]domain.Candidacy] {
	res := doJSON[[]domain.Candidacy](ctx, c, http.MethodGet,
		"/api/candidaturas/usuario/"+url.PathEscape(userID), nil, authRequired)
	if res.Error == nil {
		ids := make([]int64, 0, len(res.Data))
		for _, cand := range res.Data {
			ids = append(ids, cand.VagaID)
		}
		c.applies.mark(ids...)
	}
	return res
}

func (c *Client) CandidaciesByJob(ctx context.Context, jobID int64) Result[[]domain.Candidacy] {
	return doJSON[[]domain.Candidacy](ctx, c, http.MethodGet, fmt.Sprintf("/api/candidaturas/vaga/%d", jobID), nil, authRequired)
}

func (c *Client) UpdateCandidacyStatus(ctx context.Context, id int64, status string) Result[*domain.Candidacy] {
	return doJSON[*domain.Candidacy](ctx, c, http.MethodPatch, fmt.Sprintf("/api/candidaturas/%d/status", id),
		domain.UpdateCandidacyStatusRequest{Status: status}, authRequired)
}

package security_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpsecurity "agroskills-platform/internal/delivery/http/security"
	"agroskills-platform/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvents struct {
	filter security.EventFilter
	since  time.Time
}

func (f *fakeEvents) ListEvents(_ context.Context, filter security.EventFilter) ([]security.StoredEvent, int64, error) {
	f.filter = filter
	return []security.StoredEvent{{ID: 1, Event: string(security.EventLoginFailed)}}, 1, nil
}

func (f *fakeEvents) CountByType(_ context.Context, since time.Time) (map[string]int64, error) {
	f.since = since
	return map[string]int64{"login_failed": 4, "rate_limit_triggered": 2}, nil
}

func newRouter(events *fakeEvents) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	httpsecurity.NewEventsHandler(events).RegisterRoutes(r.Group("/admin/security"))
	return r
}

func TestListEvents(t *testing.T) {
	events := &fakeEvents{}
	r := newRouter(events)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/security/events?event_type=login_failed&limit=500&hours=2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "login_failed", events.filter.EventType)
	assert.Equal(t, 50, events.filter.Limit, "out of range limit falls back to default")
	require.NotNil(t, events.filter.Since)
	assert.WithinDuration(t, time.Now().Add(-2*time.Hour), *events.filter.Since, time.Minute)
}

func TestGetStats(t *testing.T) {
	events := &fakeEvents{}
	r := newRouter(events)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/security/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Hours int   `json:"hours"`
			Total int64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 24, body.Data.Hours)
	assert.Equal(t, int64(6), body.Data.Total)
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), events.since, time.Minute)
}

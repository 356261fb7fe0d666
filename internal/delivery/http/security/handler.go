package security

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"agroskills-platform/internal/delivery/http/response"
	"agroskills-platform/pkg/apperror"
	"agroskills-platform/pkg/security"

	"github.com/gin-gonic/gin"
)

// EventReader reads persisted security events.
type EventReader interface {
	ListEvents(ctx context.Context, filter security.EventFilter) ([]security.StoredEvent, int64, error)
	CountByType(ctx context.Context, since time.Time) (map[string]int64, error)
}

// EventsHandler exposes the security event log to administrators. Routes are
// mounted behind AuthMiddleware and RequireRole(admin).
type EventsHandler struct {
	events EventReader
	now    func() time.Time
}

func NewEventsHandler(events EventReader) *EventsHandler {
	return &EventsHandler{events: events, now: time.Now}
}

func (h *EventsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/events", h.ListEvents)
	router.GET("/stats", h.GetStats)
}

// ListEvents godoc
// @Summary List security events
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param event_type query string false "Event type"
// @Param hours query int false "Look-back window in hours"
// @Param limit query int false "Page size (max 200)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Response
// @Router /admin/security/events [get]
func (h *EventsHandler) ListEvents(c *gin.Context) {
	filter := security.EventFilter{
		EventType: c.Query("event_type"),
		Limit:     50,
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 200 {
		filter.Limit = l
	}
	if o, err := strconv.Atoi(c.Query("offset")); err == nil && o >= 0 {
		filter.Offset = o
	}
	if hours, err := strconv.Atoi(c.Query("hours")); err == nil && hours > 0 {
		since := h.now().Add(-time.Duration(hours) * time.Hour)
		filter.Since = &since
	}

	events, total, err := h.events.ListEvents(c.Request.Context(), filter)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	response.Success(c, http.StatusOK, "Events retrieved", gin.H{
		"events": events,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// GetStats godoc
// @Summary Security event counts per type
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param hours query int false "Look-back window in hours (default 24)"
// @Success 200 {object} response.Response
// @Router /admin/security/stats [get]
func (h *EventsHandler) GetStats(c *gin.Context) {
	hours := 24
	if v, err := strconv.Atoi(c.Query("hours")); err == nil && v > 0 && v <= 24*30 {
		hours = v
	}

	counts, err := h.events.CountByType(c.Request.Context(), h.now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	response.Success(c, http.StatusOK, "Stats retrieved", gin.H{
		"hours":   hours,
		"total":   total,
		"by_type": counts,
	})
}

package security

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository persists security events to the security_events table.
type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) PersistEvent(ctx context.Context, event SecurityEvent) error {
	query := `
		INSERT INTO security_events (
			event_type, environment, level, subject_type, subject_value,
			ip_address, user_agent, request_id, details, created_at
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10)`

	details := []byte("null")
	if len(event.Details) > 0 {
		details, _ = json.Marshal(event.Details)
	}

	_, err := r.db.Exec(ctx, query,
		string(event.Event),
		event.Environment,
		event.Level,
		event.SubjectType,
		event.SubjectValue,
		event.IP,
		event.UserAgent,
		event.RequestID,
		details,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to persist security event: %w", err)
	}
	return nil
}

// EventFilter narrows ListEvents. Zero values mean no restriction.
type EventFilter struct {
	EventType string
	Since     *time.Time
	Limit     int
	Offset    int
}

// StoredEvent is a persisted security event as read back for admins.
type StoredEvent struct {
	ID           int64          `json:"id"`
	Event        string         `json:"event"`
	Level        string         `json:"level"`
	SubjectType  string         `json:"subject_type,omitempty"`
	SubjectValue string         `json:"subject_value,omitempty"`
	IP           string         `json:"ip,omitempty"`
	RequestID    string         `json:"request_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ListEvents returns the newest events first plus the total match count.
func (r *EventRepository) ListEvents(ctx context.Context, filter EventFilter) ([]StoredEvent, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}

	where := ` WHERE ($1 = '' OR event_type = $1) AND ($2::timestamptz IS NULL OR created_at >= $2)`

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM security_events`+where, filter.EventType, filter.Since).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count security events: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, event_type, level, COALESCE(subject_type, ''), COALESCE(subject_value, ''),
		       COALESCE(host(ip_address), ''), COALESCE(request_id, ''), details, created_at
		FROM security_events`+where+`
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, filter.EventType, filter.Since, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list security events: %w", err)
	}
	defer rows.Close()

	events := make([]StoredEvent, 0, filter.Limit)
	for rows.Next() {
		var (
			e       StoredEvent
			details []byte
		)
		if err := rows.Scan(&e.ID, &e.Event, &e.Level, &e.SubjectType, &e.SubjectValue, &e.IP, &e.RequestID, &details, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		if len(details) > 0 {
			_ = json.Unmarshal(details, &e.Details)
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

// CountByType counts events per type since the given instant.
func (r *EventRepository) CountByType(ctx context.Context, since time.Time) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT event_type, COUNT(*) FROM security_events
		WHERE created_at >= $1
		GROUP BY event_type`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count security events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			eventType string
			n         int64
		)
		if err := rows.Scan(&eventType, &n); err != nil {
			return nil, err
		}
		counts[eventType] = n
	}
	return counts, rows.Err()
}

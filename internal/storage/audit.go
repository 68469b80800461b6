package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/verdantis/carbon-canary/internal/service"
)

// LogEvent appends an event to the audit trail.
func (s *SQLiteStorage) LogEvent(ctx context.Context, event service.AuditEvent) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(event.Type, "event type"); err != nil {
		return err
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_events (timestamp, event_type, actor, details)
		VALUES (?, ?, ?, ?)
	`, event.Timestamp, event.Type, event.Actor, string(details))
	if err != nil {
		return fmt.Errorf("failed to log audit event: %w", err)
	}
	return nil
}

// ListEvents returns audit events of one type, newest first, up to limit.
func (s *SQLiteStorage) ListEvents(ctx context.Context, eventType string, limit int) ([]service.AuditEvent, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(eventType, "event type"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, event_type, actor, details
		FROM audit_events
		WHERE event_type = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`, eventType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []service.AuditEvent
	for rows.Next() {
		var event service.AuditEvent
		var details string
		if err := rows.Scan(&event.Timestamp, &event.Type, &event.Actor, &details); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		if details != "" {
			if err := json.Unmarshal([]byte(details), &event.Details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit details: %w", err)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit events: %w", err)
	}
	return events, nil
}

package repository

import (
	"context"
	"time"
)

// Event is one recorded domain event.
type Event struct {
	ID        string
	EventType string
	Token     string
	Data      interface{}
	CreatedAt time.Time
}

// EventRepository persists domain events for auditing.
type EventRepository interface {
	// Store persists a domain event.
	Store(ctx context.Context, event Event) error

	// FindByToken returns events for one owner token, oldest first.
	FindByToken(ctx context.Context, token string) ([]Event, error)

	// FindByEventType returns the newest events of a type, capped at limit.
	FindByEventType(ctx context.Context, eventType string, limit int) ([]Event, error)

	// DeleteOldEvents removes events created before the given time.
	DeleteOldEvents(ctx context.Context, beforeTime time.Time) error

	// GetEventStats returns event counts grouped by type.
	GetEventStats(ctx context.Context) (map[string]int64, error)
}

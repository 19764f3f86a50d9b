package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"eyewear-tracker-go/internal/domain/eventbus/repository"
	"eyewear-tracker-go/internal/platform/errors"
)

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates the SQLite-backed domain event journal.
func NewEventRepository(db *gorm.DB) repository.EventRepository {
	return &eventRepository{
		db: db,
	}
}

func (r *eventRepository) Store(ctx context.Context, event repository.Event) error {
	dataBytes, err := json.Marshal(event.Data)
	if err != nil {
		return errors.Wrap(errors.KindStorage, "event.store.marshal", "failed to marshal event data", err)
	}

	domainEvent := &DomainEvent{
		EventType: event.EventType,
		Token:     event.Token,
		Data:      dataBytes,
		CreatedAt: event.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(domainEvent).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "event.store.create", "failed to store event", err)
	}

	return nil
}

func (r *eventRepository) FindByToken(ctx context.Context, token string) ([]repository.Event, error) {
	var domainEvents []DomainEvent
	if err := r.db.WithContext(ctx).
		Where("token = ?", token).
		Order("created_at ASC").
		Find(&domainEvents).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "event.find.token", "failed to find events by token", err)
	}

	return r.convertDomainEvents(domainEvents)
}

func (r *eventRepository) FindByEventType(ctx context.Context, eventType string, limit int) ([]repository.Event, error) {
	var domainEvents []DomainEvent
	query := r.db.WithContext(ctx).
		Where("event_type = ?", eventType).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&domainEvents).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "event.find.type", "failed to find events by type", err)
	}

	return r.convertDomainEvents(domainEvents)
}

func (r *eventRepository) DeleteOldEvents(ctx context.Context, beforeTime time.Time) error {
	if err := r.db.WithContext(ctx).
		Where("created_at < ?", beforeTime).
		Delete(&DomainEvent{}).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "event.delete.old", "failed to delete old events", err)
	}

	return nil
}

func (r *eventRepository) GetEventStats(ctx context.Context) (map[string]int64, error) {
	var stats []struct {
		EventType string
		Count     int64
	}

	if err := r.db.WithContext(ctx).
		Model(&DomainEvent{}).
		Select("event_type, count(*) as count").
		Group("event_type").
		Scan(&stats).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "event.stats", "failed to get event stats", err)
	}

	result := make(map[string]int64)
	for _, stat := range stats {
		result[stat.EventType] = stat.Count
	}

	return result, nil
}

func (r *eventRepository) convertDomainEvents(domainEvents []DomainEvent) ([]repository.Event, error) {
	events := make([]repository.Event, len(domainEvents))

	for i, de := range domainEvents {
		var data interface{}
		if len(de.Data) > 0 {
			if err := json.Unmarshal(de.Data, &data); err != nil {
				return nil, errors.Wrap(errors.KindStorage, "event.convert.unmarshal", "failed to unmarshal event data", err)
			}
		}

		events[i] = repository.Event{
			ID:        fmt.Sprintf("%d", de.ID),
			EventType: de.EventType,
			Token:     de.Token,
			Data:      data,
			CreatedAt: de.CreatedAt,
		}
	}

	return events, nil
}

package wearlog

import (
	"context"
	"fmt"
	"time"

	eventrepo "eyewear-tracker-go/internal/domain/eventbus/repository"
	"eyewear-tracker-go/internal/platform/errors"
	"eyewear-tracker-go/internal/platform/logging"
)

// Domain event types recorded in the journal.
const (
	EventLogUpserted = "log.upserted"
	EventLogDeleted  = "log.deleted"
	EventLogsCleared = "logs.cleared"
)

// UpsertInput carries one wear record write. The counter fields are
// forward-carried client state, stored as supplied.
type UpsertInput struct {
	Token                   string   `json:"token"`
	Date                    string   `json:"date"`
	WearType                WearType `json:"wearType"`
	LensUsageDays           int      `json:"lensUsageDays"`
	LastLensReplacementDate *string  `json:"lastLensReplacementDate"`
}

// Service implements the usage log store operations on top of the
// repository. It performs no retries; storage failures surface to the
// caller as KindStorage errors.
type Service struct {
	repo    LogRepository
	journal eventrepo.EventRepository
	logger  *logging.Logger
}

// NewService creates the log store service. The journal is optional; when
// nil, mutations are not recorded as domain events.
func NewService(repo LogRepository, journal eventrepo.EventRepository, logger *logging.Logger) (*Service, error) {
	if repo == nil {
		return nil, errors.New(errors.KindConfig, "wearlog.new", "log repository is required")
	}
	if logger == nil {
		return nil, errors.New(errors.KindConfig, "wearlog.new", "logger is required")
	}
	return &Service{
		repo:    repo,
		journal: journal,
		logger:  logger,
	}, nil
}

// Upsert validates and stores the unique (token, date) record, replacing
// any prior entry for that day.
func (s *Service) Upsert(ctx context.Context, input UpsertInput) (*Entry, error) {
	if input.Token == "" || input.Date == "" || input.WearType == "" {
		return nil, errors.New(errors.KindValidation, "wearlog.upsert",
			"Missing required fields: token, date, and wearType are required")
	}
	if !input.WearType.Valid() {
		return nil, errors.New(errors.KindValidation, "wearlog.upsert",
			`wearType must be either "glasses" or "lenses"`)
	}
	if _, err := time.Parse(DateLayout, input.Date); err != nil {
		return nil, errors.New(errors.KindValidation, "wearlog.upsert",
			"date must be a calendar date in YYYY-MM-DD format")
	}

	entry := &Entry{
		Token:                   input.Token,
		Date:                    input.Date,
		WearType:                input.WearType,
		LensUsageDays:           input.LensUsageDays,
		LastLensReplacementDate: input.LastLensReplacementDate,
	}

	stored, err := s.repo.Upsert(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.record(ctx, EventLogUpserted, input.Token, stored)
	return stored, nil
}

// ListAll returns every record for a token, date descending.
func (s *Service) ListAll(ctx context.Context, token string) ([]Entry, error) {
	return s.repo.ListByToken(ctx, token)
}

// Latest returns the most recent record by date, nil when the owner has no
// history yet.
func (s *Service) Latest(ctx context.Context, token string) (*Entry, error) {
	return s.repo.Latest(ctx, token)
}

// ListMonth returns records within [year-month-01, next-month-01), date
// ascending. December wraps into January of the following year.
func (s *Service) ListMonth(ctx context.Context, token string, year, month int) ([]Entry, error) {
	if month < 1 || month > 12 {
		return nil, errors.New(errors.KindValidation, "wearlog.list_month",
			fmt.Sprintf("month must be between 1 and 12, got %d", month))
	}
	if year < 1 {
		return nil, errors.New(errors.KindValidation, "wearlog.list_month",
			fmt.Sprintf("invalid year: %d", year))
	}

	from := fmt.Sprintf("%04d-%02d-01", year, month)
	nextYear, nextMonth := year, month+1
	if month == 12 {
		nextYear, nextMonth = year+1, 1
	}
	to := fmt.Sprintf("%04d-%02d-01", nextYear, nextMonth)

	return s.repo.ListRange(ctx, token, from, to)
}

// Summary scans the owner's full history. The day counts come from the
// scan; the counter fields are read off the most recent record, trusting
// whatever value the client carried forward on its last write.
func (s *Service) Summary(ctx context.Context, token string) (*Summary, error) {
	entries, err := s.repo.ListByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	summary := &Summary{TotalDays: len(entries)}
	for _, entry := range entries {
		if entry.WearType == WearLenses {
			summary.LensUsageDays++
		} else {
			summary.GlassesUsageDays++
		}
	}

	if len(entries) > 0 {
		latest := entries[0]
		summary.LatestLog = &latest
		summary.CurrentLensUsageDays = latest.LensUsageDays
		summary.LastLensReplacementDate = latest.LastLensReplacementDate
	}

	return summary, nil
}

// Delete removes the (token, date) record and returns it together with the
// post-delete latest record. Removing a lens day decrements the carried
// counter on every later record of the owner, floored at zero.
func (s *Service) Delete(ctx context.Context, token, date string) (deleted, latest *Entry, err error) {
	deleted, err = s.repo.Delete(ctx, token, date)
	if err != nil {
		return nil, nil, err
	}
	if deleted == nil {
		return nil, nil, errors.New(errors.KindNotFound, "wearlog.delete", "Log not found")
	}

	// Latest is captured before the correction pass runs, so the returned
	// record can carry a pre-correction counter.
	latest, err = s.repo.Latest(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	if deleted.WearType == WearLenses {
		if err := s.repo.DecrementLensDaysAfter(ctx, token, date); err != nil {
			return nil, nil, err
		}
	}

	s.record(ctx, EventLogDeleted, token, deleted)
	return deleted, latest, nil
}

// ClearAll wipes every record for every owner. Administrative operation,
// not owner-scoped.
func (s *Service) ClearAll(ctx context.Context) (int64, error) {
	count, err := s.repo.ClearAll(ctx)
	if err != nil {
		return 0, err
	}

	s.record(ctx, EventLogsCleared, "", map[string]int64{"count": count})
	s.logger.InfoTag("store", "cleared %d logs", count)
	return count, nil
}

// record writes to the event journal best-effort; journal failures never
// fail the operation that triggered them.
func (s *Service) record(ctx context.Context, eventType, token string, data interface{}) {
	if s.journal == nil {
		return
	}
	event := eventrepo.Event{
		EventType: eventType,
		Token:     token,
		Data:      data,
		CreatedAt: time.Now(),
	}
	if err := s.journal.Store(ctx, event); err != nil {
		s.logger.WarnTag("store", "failed to journal %s event: %v", eventType, err)
	}
}

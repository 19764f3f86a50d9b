package client

import (
	"context"
	"sync"
	"time"

	"eyewear-tracker-go/internal/client/store"
	"eyewear-tracker-go/internal/domain/eventbus"
	"eyewear-tracker-go/internal/domain/token"
	"eyewear-tracker-go/internal/domain/wearlog"
	"eyewear-tracker-go/internal/platform/errors"
	"eyewear-tracker-go/internal/platform/logging"
)

// Cache mirrors one owner's logs locally. Writes are applied optimistically
// to the mirror, persisted to the local store, then forwarded to the remote
// log store; the remote copy stays canonical. Every local change emits a
// change notification on the bus so the presentation layer can re-fetch.
type Cache struct {
	registry *token.Registry
	api      *API
	local    store.Store
	bus      *eventbus.Bus
	logger   *logging.Logger
	now      func() time.Time

	mu    sync.Mutex
	state store.State
}

// NewCache loads the persisted state and returns a ready cache.
func NewCache(ctx context.Context, registry *token.Registry, api *API, local store.Store, bus *eventbus.Bus, logger *logging.Logger) (*Cache, error) {
	if registry == nil || api == nil || local == nil || bus == nil || logger == nil {
		return nil, errors.New(errors.KindConfig, "client.new", "registry, api, store, bus and logger are required")
	}

	state, err := local.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "client.new", "failed to load local state", err)
	}

	return &Cache{
		registry: registry,
		api:      api,
		local:    local,
		bus:      bus,
		logger:   logger,
		now:      time.Now,
		state:    state,
	}, nil
}

// Authenticate validates the token against the registry, then rebuilds the
// local mirror from the store's full log list. A store fetch failure fails
// the authentication; the cache never authenticates from stale local data.
func (c *Cache) Authenticate(ctx context.Context, tok string) bool {
	if !c.registry.IsValid(tok) {
		c.logger.WarnTag("client", "invalid token attempted")
		return false
	}

	logs, err := c.api.Logs(ctx, tok)
	if err != nil {
		c.logger.ErrorTag("client", "failed to authenticate with store: %v", err)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	owner := store.OwnerState{Entries: []store.Entry{}}
	for _, log := range logs {
		owner.Entries = append(owner.Entries, store.Entry{
			Date:     log.Date,
			WearType: log.WearType,
		})
	}
	// Logs arrive date descending, so the first one carries the current
	// counter state.
	if len(logs) > 0 {
		owner.LensUsageDays = logs[0].LensUsageDays
		owner.LastLensReplacementDate = logs[0].LastLensReplacementDate
	}

	c.state.Token = tok
	c.state.TokenData[tok] = owner
	c.persistLocked(ctx)
	c.bus.Publish(eventbus.TopicDataChanged)
	return true
}

// Logout clears the current owner pointer; cached owner state is kept for
// the next session.
func (c *Cache) Logout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Token = ""
	c.persistLocked(ctx)
	c.bus.Publish(eventbus.TopicDataChanged)
}

// IsAuthenticated reports whether an owner is active.
func (c *Cache) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Token != ""
}

// CurrentToken returns the active owner token, empty when logged out.
func (c *Cache) CurrentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Token
}

// AddEntry records one day's wear choice, replacing any existing entry for
// that date. A lens day advances the cycle counter; the first-ever lens day
// starts the cycle. The change notification fires whether or not the push
// to the remote store succeeded.
func (c *Cache) AddEntry(ctx context.Context, date string, wearType wearlog.WearType) error {
	if !wearType.Valid() {
		return errors.New(errors.KindValidation, "client.add_entry",
			`wearType must be either "glasses" or "lenses"`)
	}
	if _, err := time.Parse(wearlog.DateLayout, date); err != nil {
		return errors.New(errors.KindValidation, "client.add_entry",
			"date must be a calendar date in YYYY-MM-DD format")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Token == "" {
		return errors.New(errors.KindDomain, "client.add_entry", "no authenticated owner")
	}

	owner := c.state.TokenData[c.state.Token]
	owner.Entries = removeByDate(owner.Entries, date)
	owner.Entries = append(owner.Entries, store.Entry{Date: date, WearType: wearType})

	if wearType == wearlog.WearLenses {
		owner.LensUsageDays++
		if owner.LastLensReplacementDate == nil {
			d := date
			owner.LastLensReplacementDate = &d
		}
	}

	c.state.TokenData[c.state.Token] = owner
	c.persistLocked(ctx)
	c.pushLatestLocked(ctx)
	c.bus.Publish(eventbus.TopicDataChanged)
	return nil
}

// RemoveEntry drops the entry for a date from the local mirror, decrementing
// the lens counter when a lens day is removed (floored at zero). No remote
// delete is issued: the sync path only forwards the newest local entry, so
// the store may keep the removed day until its next write. The save cycle
// still re-upserts the latest surviving entry with the corrected counter.
func (c *Cache) RemoveEntry(ctx context.Context, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Token == "" {
		return errors.New(errors.KindDomain, "client.remove_entry", "no authenticated owner")
	}

	owner := c.state.TokenData[c.state.Token]
	for _, entry := range owner.Entries {
		if entry.Date == date && entry.WearType == wearlog.WearLenses {
			if owner.LensUsageDays > 0 {
				owner.LensUsageDays--
			}
			break
		}
	}
	owner.Entries = removeByDate(owner.Entries, date)

	c.state.TokenData[c.state.Token] = owner
	c.persistLocked(ctx)
	c.pushLatestLocked(ctx)
	c.bus.Publish(eventbus.TopicDataChanged)
	return nil
}

// ResetLensCounter starts a new lens cycle dated today and propagates the
// fresh counter through the next save/push.
func (c *Cache) ResetLensCounter(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Token == "" {
		return errors.New(errors.KindDomain, "client.reset_counter", "no authenticated owner")
	}

	reset := wearlog.ResetCounter(c.now())
	owner := c.state.TokenData[c.state.Token]
	owner.LensUsageDays = reset.LensUsageDays
	replaced := reset.LastLensReplacementDate
	owner.LastLensReplacementDate = &replaced

	c.state.TokenData[c.state.Token] = owner
	c.persistLocked(ctx)
	c.pushLatestLocked(ctx)
	c.bus.Publish(eventbus.TopicDataChanged)
	return nil
}

// EntryForDate looks up the local mirror.
func (c *Cache) EntryForDate(date string) (store.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	owner := c.state.TokenData[c.state.Token]
	for _, entry := range owner.Entries {
		if entry.Date == date {
			return entry, true
		}
	}
	return store.Entry{}, false
}

// MonthStats derives the month's glasses/lens day counts from the local
// mirror.
func (c *Cache) MonthStats(month time.Month, year int) wearlog.MonthStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	owner := c.state.TokenData[c.state.Token]
	entries := make([]wearlog.Entry, len(owner.Entries))
	for i, entry := range owner.Entries {
		entries[i] = wearlog.Entry{Date: entry.Date, WearType: entry.WearType}
	}
	return wearlog.CalcMonthStats(entries, month, year)
}

// LensUsageDays returns the current cycle counter.
func (c *Cache) LensUsageDays() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.TokenData[c.state.Token].LensUsageDays
}

// DaysRemaining returns the wear days left in the current cycle.
func (c *Cache) DaysRemaining() int {
	return wearlog.DaysRemaining(c.LensUsageDays())
}

// IsReplacementDue reports whether the 30-day cycle is exhausted.
func (c *Cache) IsReplacementDue() bool {
	return wearlog.IsReplacementDue(c.LensUsageDays())
}

// LastLensReplacementDate returns the current cycle's start date, nil when
// no lens day was ever recorded.
func (c *Cache) LastLensReplacementDate() *string {
	c.mu.Lock()
	defer c.mu.Unlock()

	owner := c.state.TokenData[c.state.Token]
	if owner.LastLensReplacementDate == nil {
		return nil
	}
	d := *owner.LastLensReplacementDate
	return &d
}

// persistLocked saves the state blob. Persistence failures degrade to a
// logged warning; the in-memory mirror stays authoritative for the session.
func (c *Cache) persistLocked(ctx context.Context) {
	if err := c.local.Save(ctx, c.state); err != nil {
		c.logger.WarnTag("client", "failed to persist local state: %v", err)
	}
}

// pushLatestLocked forwards the newest local entry to the remote store.
// Push failures are logged, never surfaced: the operation already succeeded
// locally and the next successful push carries the corrected counter.
func (c *Cache) pushLatestLocked(ctx context.Context) {
	if c.state.Token == "" {
		return
	}
	owner := c.state.TokenData[c.state.Token]
	if len(owner.Entries) == 0 {
		return
	}

	latest := owner.Entries[len(owner.Entries)-1]
	_, err := c.api.SaveLog(ctx, wearlog.UpsertInput{
		Token:                   c.state.Token,
		Date:                    latest.Date,
		WearType:                latest.WearType,
		LensUsageDays:           owner.LensUsageDays,
		LastLensReplacementDate: owner.LastLensReplacementDate,
	})
	if err != nil {
		c.logger.WarnTag("client", "failed to sync latest entry: %v", err)
	}
}

func removeByDate(entries []store.Entry, date string) []store.Entry {
	out := entries[:0]
	for _, entry := range entries {
		if entry.Date != date {
			out = append(out, entry)
		}
	}
	return out
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"eyewear-tracker-go/internal/client/store"
	"eyewear-tracker-go/internal/domain/eventbus"
	"eyewear-tracker-go/internal/domain/token"
	"eyewear-tracker-go/internal/domain/wearlog"
	platformtesting "eyewear-tracker-go/internal/platform/testing"
)

// fakeStore is a minimal in-memory stand-in for the remote log store.
type fakeStore struct {
	mu       sync.Mutex
	logs     map[string]map[string]wearlog.Entry
	failAll  bool
	failPost bool
	posts    int
	deletes  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		logs: map[string]map[string]wearlog.Entry{},
	}
}

func (f *fakeStore) seed(entry wearlog.Entry) {
	if f.logs[entry.Token] == nil {
		f.logs[entry.Token] = map[string]wearlog.Entry{}
	}
	f.logs[entry.Token][entry.Date] = entry
}

func (f *fakeStore) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.failAll {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch logs"})
			return
		}

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/logs":
			f.posts++
			if f.failPost {
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to save log"})
				return
			}
			var entry wearlog.Entry
			_ = json.NewDecoder(r.Body).Decode(&entry)
			f.seed(entry)
			_ = json.NewEncoder(w).Encode(entry)

		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/logs/"):
			tok := strings.TrimPrefix(r.URL.Path, "/logs/")
			entries := []wearlog.Entry{}
			dates := []string{}
			for date := range f.logs[tok] {
				dates = append(dates, date)
			}
			// Date descending, the store's list order.
			for i := 0; i < len(dates); i++ {
				for j := i + 1; j < len(dates); j++ {
					if dates[j] > dates[i] {
						dates[i], dates[j] = dates[j], dates[i]
					}
				}
			}
			for _, date := range dates {
				entries = append(entries, f.logs[tok][date])
			}
			_ = json.NewEncoder(w).Encode(entries)

		case r.Method == http.MethodDelete:
			f.deletes++
			w.WriteHeader(http.StatusNotFound)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestCache(t *testing.T, fake *fakeStore) (*Cache, *eventbus.Bus) {
	t.Helper()

	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	bus := eventbus.New()
	cache, err := NewCache(
		context.Background(),
		token.NewRegistry(),
		NewAPI(server.URL),
		store.NewMemory(),
		bus,
		platformtesting.SetupTestLogger(t),
	)
	if err != nil {
		t.Fatalf("NewCache returned error: %v", err)
	}
	return cache, bus
}

func subscribeCounter(t *testing.T, bus *eventbus.Bus) *int {
	t.Helper()
	var calls int
	if err := bus.Subscribe(eventbus.TopicDataChanged, func() { calls++ }); err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	return &calls
}

func TestAuthenticateRejectsUnknownToken(t *testing.T) {
	fake := newFakeStore()
	cache, bus := newTestCache(t, fake)
	calls := subscribeCounter(t, bus)

	if cache.Authenticate(context.Background(), "ABC123") {
		t.Fatal("expected authentication to fail for unknown token")
	}
	if cache.IsAuthenticated() {
		t.Error("no owner should be active after failed authentication")
	}
	if *calls != 0 {
		t.Errorf("no change notification expected, got %d", *calls)
	}
}

func TestAuthenticateFailsWhenStoreUnreachable(t *testing.T) {
	fake := newFakeStore()
	fake.failAll = true
	cache, _ := newTestCache(t, fake)

	if cache.Authenticate(context.Background(), "EYEWEAR21") {
		t.Fatal("expected authentication to fail when store fetch fails")
	}
	if cache.IsAuthenticated() {
		t.Error("stale local data must not authenticate")
	}
}

func TestAuthenticateRebuildsStateFromStore(t *testing.T) {
	replaced := "2025-05-01"
	fake := newFakeStore()
	fake.seed(wearlog.Entry{Token: "EYEWEAR21", Date: "2025-05-01", WearType: wearlog.WearLenses, LensUsageDays: 1, LastLensReplacementDate: &replaced})
	fake.seed(wearlog.Entry{Token: "EYEWEAR21", Date: "2025-05-02", WearType: wearlog.WearLenses, LensUsageDays: 2, LastLensReplacementDate: &replaced})
	fake.seed(wearlog.Entry{Token: "EYEWEAR21", Date: "2025-05-03", WearType: wearlog.WearGlasses, LensUsageDays: 2, LastLensReplacementDate: &replaced})

	cache, bus := newTestCache(t, fake)
	calls := subscribeCounter(t, bus)

	if !cache.Authenticate(context.Background(), "EYEWEAR21") {
		t.Fatal("expected authentication to succeed")
	}
	if got := cache.LensUsageDays(); got != 2 {
		t.Errorf("expected counter 2 from latest record, got %d", got)
	}
	if got := cache.LastLensReplacementDate(); got == nil || *got != replaced {
		t.Errorf("unexpected replacement date: %v", got)
	}
	if _, ok := cache.EntryForDate("2025-05-02"); !ok {
		t.Error("expected cached entry for 2025-05-02")
	}
	if *calls != 1 {
		t.Errorf("expected one change notification, got %d", *calls)
	}
}

func TestAddEntryPushesLatestToStore(t *testing.T) {
	fake := newFakeStore()
	cache, bus := newTestCache(t, fake)
	if !cache.Authenticate(context.Background(), "EYEWEAR21") {
		t.Fatal("authentication failed")
	}
	calls := subscribeCounter(t, bus)

	if err := cache.AddEntry(context.Background(), "2025-06-01", wearlog.WearLenses); err != nil {
		t.Fatalf("AddEntry returned error: %v", err)
	}

	if got := cache.LensUsageDays(); got != 1 {
		t.Errorf("expected counter 1, got %d", got)
	}
	if got := cache.LastLensReplacementDate(); got == nil || *got != "2025-06-01" {
		t.Errorf("first lens day should start the cycle, got %v", got)
	}

	pushed := fake.logs["EYEWEAR21"]["2025-06-01"]
	if pushed.WearType != wearlog.WearLenses || pushed.LensUsageDays != 1 {
		t.Errorf("unexpected pushed record: %+v", pushed)
	}
	if *calls != 1 {
		t.Errorf("expected one change notification, got %d", *calls)
	}
}

func TestAddEntryReplacesSameDate(t *testing.T) {
	fake := newFakeStore()
	cache, _ := newTestCache(t, fake)
	if !cache.Authenticate(context.Background(), "EYEWEAR21") {
		t.Fatal("authentication failed")
	}

	ctx := context.Background()
	platformtesting.AssertNoError(t, cache.AddEntry(ctx, "2025-06-01", wearlog.WearGlasses))
	platformtesting.AssertNoError(t, cache.AddEntry(ctx, "2025-06-01", wearlog.WearLenses))

	entry, ok := cache.EntryForDate("2025-06-01")
	if !ok || entry.WearType != wearlog.WearLenses {
		t.Fatalf("expected lens entry after replacement, got %+v (ok=%v)", entry, ok)
	}

	stats := cache.MonthStats(time.June, 2025)
	if stats.Glasses != 0 || stats.Lenses != 1 {
		t.Errorf("expected one lens day only, got %+v", stats)
	}
}

func TestAddEntryNotifiesEvenWhenPushFails(t *testing.T) {
	fake := newFakeStore()
	cache, bus := newTestCache(t, fake)
	if !cache.Authenticate(context.Background(), "EYEWEAR21") {
		t.Fatal("authentication failed")
	}
	fake.failPost = true
	calls := subscribeCounter(t, bus)

	if err := cache.AddEntry(context.Background(), "2025-06-01", wearlog.WearGlasses); err != nil {
		t.Fatalf("AddEntry returned error: %v", err)
	}
	if *calls != 1 {
		t.Errorf("change notification must fire regardless of push success, got %d", *calls)
	}
}

func TestAddEntryValidation(t *testing.T) {
	fake := newFakeStore()
	cache, _ := newTestCache(t, fake)
	if !cache.Authenticate(context.Background(), "EYEWEAR21") {
		t.Fatal("authentication failed")
	}

	if err := cache.AddEntry(context.Background(), "2025-06-01", "sunglasses"); err == nil {
		t.Error("expected error for invalid wear type")
	}
	if err := cache.AddEntry(context.Background(), "June 1st", wearlog.WearGlasses); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestRemoveEntryDecrementsCounterAndSkipsRemoteDelete(t *testing.T) {
	fake := newFakeStore()
	cache, _ := newTestCache(t, fake)
	ctx := context.Background()
	if !cache.Authenticate(ctx, "EYEWEAR21") {
		t.Fatal("authentication failed")
	}

	platformtesting.AssertNoError(t, cache.AddEntry(ctx, "2025-06-01", wearlog.WearLenses))
	platformtesting.AssertNoError(t, cache.AddEntry(ctx, "2025-06-02", wearlog.WearLenses))

	platformtesting.AssertNoError(t, cache.RemoveEntry(ctx, "2025-06-01"))
	if got := cache.LensUsageDays(); got != 1 {
		t.Errorf("expected counter 1 after removal, got %d", got)
	}
	if _, ok := cache.EntryForDate("2025-06-01"); ok {
		t.Error("entry should be gone locally")
	}

	// Deletion is local-only; the sync path never issues a remote delete.
	if fake.deletes != 0 {
		t.Errorf("expected no remote deletes, got %d", fake.deletes)
	}
	if _, ok := fake.logs["EYEWEAR21"]["2025-06-01"]; !ok {
		t.Error("remote store should still hold the removed day until its next write")
	}
}

func TestRemoveEntryFloorsCounterAtZero(t *testing.T) {
	fake := newFakeStore()
	cache, _ := newTestCache(t, fake)
	ctx := context.Background()
	if !cache.Authenticate(ctx, "EYEWEAR21") {
		t.Fatal("authentication failed")
	}

	platformtesting.AssertNoError(t, cache.AddEntry(ctx, "2025-06-01", wearlog.WearGlasses))
	platformtesting.AssertNoError(t, cache.RemoveEntry(ctx, "2025-06-01"))
	platformtesting.AssertNoError(t, cache.RemoveEntry(ctx, "2025-06-01"))

	if got := cache.LensUsageDays(); got != 0 {
		t.Errorf("counter must never go negative, got %d", got)
	}
}

func TestResetLensCounter(t *testing.T) {
	fake := newFakeStore()
	cache, _ := newTestCache(t, fake)
	ctx := context.Background()
	if !cache.Authenticate(ctx, "EYEWEAR21") {
		t.Fatal("authentication failed")
	}
	cache.now = func() time.Time {
		return time.Date(2025, time.July, 4, 12, 0, 0, 0, time.UTC)
	}

	// 30 consecutive lens days exhaust the cycle.
	for day := 1; day <= 30; day++ {
		date := fmt.Sprintf("2025-06-%02d", day)
		platformtesting.AssertNoError(t, cache.AddEntry(ctx, date, wearlog.WearLenses))
	}
	if !cache.IsReplacementDue() {
		t.Fatal("expected replacement due after 30 lens days")
	}
	if got := cache.DaysRemaining(); got != 0 {
		t.Errorf("expected 0 days remaining, got %d", got)
	}

	platformtesting.AssertNoError(t, cache.ResetLensCounter(ctx))
	if got := cache.LensUsageDays(); got != 0 {
		t.Errorf("expected counter 0 after reset, got %d", got)
	}
	if got := cache.LastLensReplacementDate(); got == nil || *got != "2025-07-04" {
		t.Errorf("expected reset date 2025-07-04, got %v", got)
	}
	if cache.IsReplacementDue() {
		t.Error("replacement should no longer be due after reset")
	}
}

func TestFiveConsecutiveLensDays(t *testing.T) {
	fake := newFakeStore()
	cache, _ := newTestCache(t, fake)
	ctx := context.Background()
	if !cache.Authenticate(ctx, "EYEWEAR21") {
		t.Fatal("authentication failed")
	}

	for day := 1; day <= 5; day++ {
		date := fmt.Sprintf("2025-06-%02d", day)
		platformtesting.AssertNoError(t, cache.AddEntry(ctx, date, wearlog.WearLenses))
	}

	if got := cache.LensUsageDays(); got != 5 {
		t.Errorf("expected counter 5, got %d", got)
	}
	if got := cache.LastLensReplacementDate(); got == nil || *got != "2025-06-01" {
		t.Errorf("cycle should start on the first lens day, got %v", got)
	}
	if cache.IsReplacementDue() {
		t.Error("replacement must not be due at 5 days")
	}
	if got := cache.DaysRemaining(); got != 25 {
		t.Errorf("expected 25 days remaining, got %d", got)
	}
}

func TestLogoutKeepsOwnerState(t *testing.T) {
	fake := newFakeStore()
	cache, _ := newTestCache(t, fake)
	ctx := context.Background()
	if !cache.Authenticate(ctx, "EYEWEAR21") {
		t.Fatal("authentication failed")
	}
	platformtesting.AssertNoError(t, cache.AddEntry(ctx, "2025-06-01", wearlog.WearLenses))

	cache.Logout(ctx)
	if cache.IsAuthenticated() {
		t.Error("expected logged-out state")
	}

	if !cache.Authenticate(ctx, "EYEWEAR21") {
		t.Fatal("re-authentication failed")
	}
	if _, ok := cache.EntryForDate("2025-06-01"); !ok {
		t.Error("owner history should survive logout")
	}
}

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yungbote/fincompass-backend/internal/logger"
	"github.com/yungbote/fincompass-backend/internal/types"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func testPayload(date string) *types.DailyOutlookPayload {
	return &types.DailyOutlookPayload{
		Date:                 date,
		EncouragementMessage: "keep going",
		StreakCount:          2,
	}
}

func TestGetOrCompute_HitAfterFirstCompute(t *testing.T) {
	c := NewOutlookCache(testLogger(), NewMemoryStore(), DefaultTTL)
	userID := uuid.New()
	date := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	var computes int32
	compute := func(ctx context.Context) (*types.DailyOutlookPayload, error) {
		atomic.AddInt32(&computes, 1)
		return testPayload("2026-08-29"), nil
	}

	payload, hit, err := c.GetOrCompute(context.Background(), userID, date, compute)
	if err != nil {
		t.Fatalf("first GetOrCompute: %v", err)
	}
	if hit {
		t.Fatal("first access reported a cache hit")
	}
	if payload.Date != "2026-08-29" {
		t.Fatalf("payload date = %s", payload.Date)
	}

	payload, hit, err = c.GetOrCompute(context.Background(), userID, date, compute)
	if err != nil {
		t.Fatalf("second GetOrCompute: %v", err)
	}
	if !hit {
		t.Fatal("second access missed the cache")
	}
	if payload.EncouragementMessage != "keep going" {
		t.Fatalf("cached payload corrupted: %+v", payload)
	}
	if n := atomic.LoadInt32(&computes); n != 1 {
		t.Fatalf("compute ran %d times, want 1", n)
	}
}

func TestGetOrCompute_CollapsesConcurrentCallers(t *testing.T) {
	c := NewOutlookCache(testLogger(), NewMemoryStore(), DefaultTTL)
	userID := uuid.New()
	date := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	var computes int32
	release := make(chan struct{})
	compute := func(ctx context.Context) (*types.DailyOutlookPayload, error) {
		atomic.AddInt32(&computes, 1)
		<-release
		return testPayload("2026-08-29"), nil
	}

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, _, errs[i] = c.GetOrCompute(context.Background(), userID, date, compute)
		}(i)
	}
	close(start)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&computes); n != 1 {
		t.Fatalf("compute ran %d times for %d concurrent callers, want 1", n, callers)
	}
}

func TestGetOrCompute_ComputeErrorPropagates(t *testing.T) {
	c := NewOutlookCache(testLogger(), NewMemoryStore(), DefaultTTL)
	wantErr := errors.New("profile missing")

	_, _, err := c.GetOrCompute(context.Background(), uuid.New(), time.Now(), func(ctx context.Context) (*types.DailyOutlookPayload, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestInvalidate(t *testing.T) {
	c := NewOutlookCache(testLogger(), NewMemoryStore(), DefaultTTL)
	userID := uuid.New()
	date := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	var computes int32
	compute := func(ctx context.Context) (*types.DailyOutlookPayload, error) {
		atomic.AddInt32(&computes, 1)
		return testPayload("2026-08-29"), nil
	}

	if _, _, err := c.GetOrCompute(context.Background(), userID, date, compute); err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if err := c.Invalidate(context.Background(), userID, date); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	_, hit, err := c.GetOrCompute(context.Background(), userID, date, compute)
	if err != nil {
		t.Fatalf("GetOrCompute after invalidate: %v", err)
	}
	if hit {
		t.Fatal("invalidated entry still served from cache")
	}
	if n := atomic.LoadInt32(&computes); n != 2 {
		t.Fatalf("compute ran %d times, want 2", n)
	}
}

func TestEntryTTL_ClippedToEndOfDay(t *testing.T) {
	c := NewOutlookCache(testLogger(), NewMemoryStore(), DefaultTTL)
	date := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	c.now = func() time.Time { return time.Date(2026, 8, 29, 23, 30, 0, 0, time.UTC) }
	if got := c.entryTTL(date); got != 30*time.Minute {
		t.Fatalf("entryTTL near midnight = %v, want 30m", got)
	}

	c.now = func() time.Time { return time.Date(2026, 8, 29, 1, 0, 0, 0, time.UTC) }
	if got := c.entryTTL(date); got != 23*time.Hour {
		t.Fatalf("entryTTL early morning = %v, want 23h", got)
	}

	// a stale date never extends past the configured TTL
	c.now = func() time.Time { return time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC) }
	if got := c.entryTTL(date); got != DefaultTTL {
		t.Fatalf("entryTTL for past date = %v, want %v", got, DefaultTTL)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	if err := store.Set(context.Background(), "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := store.Get(context.Background(), "k"); !ok {
		t.Fatal("fresh entry missing")
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := store.Get(context.Background(), "k"); ok {
		t.Fatal("expired entry still served")
	}
}

func TestKey(t *testing.T) {
	userID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	date := time.Date(2026, 8, 29, 18, 45, 0, 0, time.UTC)
	want := "outlook:11111111-2222-3333-4444-555555555555:2026-08-29"
	if got := Key(userID, date); got != want {
		t.Fatalf("Key = %s, want %s", got, want)
	}
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/fincompass-backend/internal/cache"
	"github.com/yungbote/fincompass-backend/internal/types"
)

type outlookFixture struct {
	svc    *outlookService
	repo   *fakeOutlookRepo
	users  *fakeUserService
	events *recordingEvents
	today  time.Time
}

func newOutlookFixture(t *testing.T) *outlookFixture {
	t.Helper()
	log := testLogger()
	repo := newFakeOutlookRepo()
	users := newFakeUserService()
	events := &recordingEvents{}
	tierGate := NewTierGateService(log)
	outlookCache := cache.NewOutlookCache(log, cache.NewMemoryStore(), cache.DefaultTTL)

	svc := NewOutlookService(
		nil,
		log,
		repo,
		users,
		NewWeightingService(log),
		NewContentService(log, tierGate, events),
		NewStreakService(log, repo),
		tierGate,
		events,
		outlookCache,
	).(*outlookService)

	today := day("2026-08-29")
	svc.now = func() time.Time { return today.Add(9 * time.Hour) }
	return &outlookFixture{svc: svc, repo: repo, users: users, events: events, today: today}
}

func (fx *outlookFixture) addActiveUser(tier string) uuid.UUID {
	return fx.users.addUser(&types.User{Tier: tier, Active: true})
}

func TestGenerateForUser_CreatesOnce(t *testing.T) {
	fx := newOutlookFixture(t)
	userID := fx.addActiveUser("entry")

	first, created, err := fx.svc.GenerateForUser(context.Background(), userID, fx.today, false)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if !created {
		t.Fatal("first generate reported created=false")
	}
	if first.StreakCount != 0 {
		t.Fatalf("fresh user streak = %d, want 0", first.StreakCount)
	}

	second, created, err := fx.svc.GenerateForUser(context.Background(), userID, fx.today, false)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if created {
		t.Fatal("second generate reported created=true")
	}
	if second.ID != first.ID {
		t.Fatalf("second generate returned a different row: %s vs %s", second.ID, first.ID)
	}
}

func TestGenerateForUser_UnknownUser(t *testing.T) {
	fx := newOutlookFixture(t)

	_, _, err := fx.svc.GenerateForUser(context.Background(), uuid.New(), fx.today, false)
	if !errors.Is(err, ErrOutlookNotReady) {
		t.Fatalf("err = %v, want ErrOutlookNotReady", err)
	}
}

func TestGenerateForUser_InactiveUser(t *testing.T) {
	fx := newOutlookFixture(t)
	userID := fx.users.addUser(&types.User{Tier: "entry", Active: false})

	_, _, err := fx.svc.GenerateForUser(context.Background(), userID, fx.today, false)
	if !errors.Is(err, ErrOutlookNotReady) {
		t.Fatalf("err = %v, want ErrOutlookNotReady", err)
	}
}

func TestGenerateForUser_StreakAndMilestone(t *testing.T) {
	fx := newOutlookFixture(t)
	userID := fx.addActiveUser("entry")
	fx.repo.seedDates(userID, consecutive(fx.today.AddDate(0, 0, -1), 3)...)

	outlook, _, err := fx.svc.GenerateForUser(context.Background(), userID, fx.today, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if outlook.StreakCount != 3 {
		t.Fatalf("streak = %d, want 3", outlook.StreakCount)
	}
	if !outlook.MilestoneReached {
		t.Fatal("milestone not flagged at streak 3")
	}
	if got := fx.events.count(types.EventMilestoneReached); got != 1 {
		t.Fatalf("milestone events = %d, want 1", got)
	}

	// Regenerating the same day must not fire the milestone again.
	if _, _, err := fx.svc.GenerateForUser(context.Background(), userID, fx.today, true); err != nil {
		t.Fatalf("force regenerate: %v", err)
	}
	if got := fx.events.count(types.EventMilestoneReached); got != 1 {
		t.Fatalf("milestone events after force = %d, want 1", got)
	}
}

func TestGenerateForUser_ConflictReturnsWinner(t *testing.T) {
	fx := newOutlookFixture(t)
	userID := fx.addActiveUser("entry")

	winner, _, err := fx.svc.GenerateForUser(context.Background(), userID, fx.today, false)
	if err != nil {
		t.Fatalf("seed generate: %v", err)
	}

	// Simulate the race: the existence check misses but the insert conflicts
	// with a row a concurrent writer lands in the meantime.
	fx.repo.mu.Lock()
	row := fx.repo.rows[userID][types.DateKey(fx.today)]
	delete(fx.repo.rows[userID], types.DateKey(fx.today))
	fx.repo.createErrs = []error{errDuplicate{}}
	fx.repo.winnerOnConflict = row
	fx.repo.mu.Unlock()

	got, created, err := fx.svc.GenerateForUser(context.Background(), userID, fx.today, false)
	if err != nil {
		t.Fatalf("racing generate: %v", err)
	}
	if created {
		t.Fatal("losing writer reported created=true")
	}
	if got.ID != winner.ID {
		t.Fatalf("losing writer returned %s, want winner %s", got.ID, winner.ID)
	}
}

type errDuplicate struct{}

func (errDuplicate) Error() string { return "duplicate key value violates unique constraint" }

func TestGetToday_ServesFromCache(t *testing.T) {
	fx := newOutlookFixture(t)
	userID := fx.addActiveUser("mid")

	first, err := fx.svc.GetToday(context.Background(), userID)
	if err != nil {
		t.Fatalf("first GetToday: %v", err)
	}
	second, err := fx.svc.GetToday(context.Background(), userID)
	if err != nil {
		t.Fatalf("second GetToday: %v", err)
	}
	if first.Date != second.Date || first.EncouragementMessage != second.EncouragementMessage {
		t.Fatalf("cached payload differs: %+v vs %+v", first, second)
	}
	if got := fx.events.count(types.EventCacheMiss); got != 1 {
		t.Fatalf("cache_miss events = %d, want 1", got)
	}
	if first.UserTier != types.TierMid {
		t.Fatalf("payload tier = %s, want mid", first.UserTier)
	}
}

func TestCompleteAction(t *testing.T) {
	fx := newOutlookFixture(t)
	userID := fx.addActiveUser("entry")

	payload, err := fx.svc.GetToday(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetToday: %v", err)
	}
	if len(payload.QuickActions) == 0 {
		t.Fatal("no quick actions generated")
	}
	actionID := payload.QuickActions[0].ID

	updated, err := fx.svc.CompleteAction(context.Background(), userID, actionID, true)
	if err != nil {
		t.Fatalf("CompleteAction: %v", err)
	}
	found := false
	for _, a := range updated.QuickActions {
		if a.ID == actionID {
			found = true
			if !a.Completed {
				t.Fatalf("action %s not marked completed", actionID)
			}
		}
	}
	if !found {
		t.Fatalf("action %s missing from updated payload", actionID)
	}

	if _, err := fx.svc.CompleteAction(context.Background(), userID, "no_such_action", true); err == nil {
		t.Fatal("unknown action id accepted")
	}
}

func TestCompleteAction_NoOutlookYet(t *testing.T) {
	fx := newOutlookFixture(t)
	userID := fx.addActiveUser("entry")

	_, err := fx.svc.CompleteAction(context.Background(), userID, "fin_review_spending", true)
	if !errors.Is(err, ErrOutlookNotReady) {
		t.Fatalf("err = %v, want ErrOutlookNotReady", err)
	}
}

func TestRate(t *testing.T) {
	fx := newOutlookFixture(t)
	userID := fx.addActiveUser("entry")

	if err := fx.svc.Rate(context.Background(), userID, 0); !errors.Is(err, ErrInvalidScoreRange) {
		t.Fatalf("Rate(0) err = %v, want ErrInvalidScoreRange", err)
	}
	if err := fx.svc.Rate(context.Background(), userID, 6); !errors.Is(err, ErrInvalidScoreRange) {
		t.Fatalf("Rate(6) err = %v, want ErrInvalidScoreRange", err)
	}
	if err := fx.svc.Rate(context.Background(), userID, 4); !errors.Is(err, ErrOutlookNotReady) {
		t.Fatalf("Rate without outlook err = %v, want ErrOutlookNotReady", err)
	}

	if _, _, err := fx.svc.GenerateForUser(context.Background(), userID, fx.today, false); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := fx.svc.Rate(context.Background(), userID, 4); err != nil {
		t.Fatalf("Rate: %v", err)
	}
	row, _ := fx.repo.GetByUserAndDate(context.Background(), nil, userID, fx.today)
	if row.Rating == nil || *row.Rating != 4 {
		t.Fatalf("stored rating = %v, want 4", row.Rating)
	}
}

func TestStreakInfo(t *testing.T) {
	fx := newOutlookFixture(t)
	userID := fx.addActiveUser("entry")
	fx.repo.seedDates(userID, consecutive(fx.today, 7)...)

	info, err := fx.svc.StreakInfo(context.Background(), userID)
	if err != nil {
		t.Fatalf("StreakInfo: %v", err)
	}
	if info.CurrentStreak != 7 {
		t.Fatalf("current streak = %d, want 7", info.CurrentStreak)
	}
	if info.NextMilestone != 14 {
		t.Fatalf("next milestone = %d, want 14", info.NextMilestone)
	}
	if !info.IsMilestone {
		t.Fatal("streak 7 not reported as milestone")
	}
}

func TestHistory_TierGated(t *testing.T) {
	fx := newOutlookFixture(t)
	entryID := fx.addActiveUser("entry")
	midID := fx.addActiveUser("mid")

	if _, err := fx.svc.History(context.Background(), entryID, 30); !errors.Is(err, ErrTierRequired) {
		t.Fatalf("entry history err = %v, want ErrTierRequired", err)
	}

	for i := 0; i < 3; i++ {
		d := fx.today.AddDate(0, 0, -i)
		if _, _, err := fx.svc.GenerateForUser(context.Background(), midID, d, false); err != nil {
			t.Fatalf("generate %s: %v", types.DateKey(d), err)
		}
	}
	payloads, err := fx.svc.History(context.Background(), midID, 30)
	if err != nil {
		t.Fatalf("mid history: %v", err)
	}
	if len(payloads) != 3 {
		t.Fatalf("history rows = %d, want 3", len(payloads))
	}
	if payloads[0].Date != types.DateKey(fx.today) {
		t.Fatalf("history[0] = %s, want newest first (%s)", payloads[0].Date, types.DateKey(fx.today))
	}
}

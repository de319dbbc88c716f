package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yungbote/fincompass-backend/internal/logger"
	"github.com/yungbote/fincompass-backend/internal/types"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// fakeOutlookRepo is an in-memory DailyOutlookRepo keyed by (user, date key).
type fakeOutlookRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]map[string]*types.DailyOutlook

	// createErrs is consumed one entry per Create call when non-empty
	createErrs []error
	// winnerOnConflict is installed into rows when a createErrs entry fires,
	// mimicking the concurrent writer that won the unique index
	winnerOnConflict *types.DailyOutlook
}

func newFakeOutlookRepo() *fakeOutlookRepo {
	return &fakeOutlookRepo{rows: map[uuid.UUID]map[string]*types.DailyOutlook{}}
}

func (f *fakeOutlookRepo) seedDates(userID uuid.UUID, dates ...time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows[userID] == nil {
		f.rows[userID] = map[string]*types.DailyOutlook{}
	}
	for _, d := range dates {
		d = types.DateOnly(d)
		f.rows[userID][types.DateKey(d)] = &types.DailyOutlook{
			ID:          uuid.New(),
			UserID:      userID,
			OutlookDate: d,
		}
	}
}

func (f *fakeOutlookRepo) Create(ctx context.Context, tx *gorm.DB, outlooks []*types.DailyOutlook) ([]*types.DailyOutlook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			if w := f.winnerOnConflict; w != nil {
				if f.rows[w.UserID] == nil {
					f.rows[w.UserID] = map[string]*types.DailyOutlook{}
				}
				f.rows[w.UserID][types.DateKey(w.OutlookDate)] = w
			}
			return nil, err
		}
	}
	for _, o := range outlooks {
		o.OutlookDate = types.DateOnly(o.OutlookDate)
		key := types.DateKey(o.OutlookDate)
		if f.rows[o.UserID] == nil {
			f.rows[o.UserID] = map[string]*types.DailyOutlook{}
		}
		if _, exists := f.rows[o.UserID][key]; exists {
			return nil, gorm.ErrDuplicatedKey
		}
		f.rows[o.UserID][key] = o
	}
	return outlooks, nil
}

func (f *fakeOutlookRepo) GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (*types.DailyOutlook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.rows[userID][types.DateKey(date)]
	if !ok {
		return nil, nil
	}
	return o, nil
}

func (f *fakeOutlookRepo) GetRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.DailyOutlook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.DailyOutlook
	for _, o := range f.rows[userID] {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OutlookDate.After(out[j].OutlookDate) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeOutlookRepo) GetDatesByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, onOrBefore time.Time, limit int) ([]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	onOrBefore = types.DateOnly(onOrBefore)
	var dates []time.Time
	for _, o := range f.rows[userID] {
		if !o.OutlookDate.After(onOrBefore) {
			dates = append(dates, o.OutlookDate)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	if limit > 0 && len(dates) > limit {
		dates = dates[:limit]
	}
	return dates, nil
}

func (f *fakeOutlookRepo) ListUserIDsWithDate(ctx context.Context, tx *gorm.DB, date time.Time) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := types.DateKey(date)
	var ids []uuid.UUID
	for userID, byDate := range f.rows {
		if _, ok := byDate[key]; ok {
			ids = append(ids, userID)
		}
	}
	return ids, nil
}

func (f *fakeOutlookRepo) Save(ctx context.Context, tx *gorm.DB, outlook *types.DailyOutlook) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows[outlook.UserID] == nil {
		f.rows[outlook.UserID] = map[string]*types.DailyOutlook{}
	}
	f.rows[outlook.UserID][types.DateKey(outlook.OutlookDate)] = outlook
	return nil
}

func (f *fakeOutlookRepo) DeleteByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows[userID], types.DateKey(date))
	return nil
}

// fakeUserService serves profiles and relationship records from maps.
type fakeUserService struct {
	mu    sync.Mutex
	users map[uuid.UUID]*types.User
	rels  map[uuid.UUID]*types.RelationshipStatusRecord
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{
		users: map[uuid.UUID]*types.User{},
		rels:  map[uuid.UUID]*types.RelationshipStatusRecord{},
	}
}

func (f *fakeUserService) addUser(u *types.User) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.users[u.ID] = u
	return u.ID
}

func (f *fakeUserService) GetMe(ctx context.Context, tx *gorm.DB) (*types.User, error) {
	return nil, fmt.Errorf("not supported")
}

func (f *fakeUserService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, ErrMissingProfileData)
	}
	return u, nil
}

func (f *fakeUserService) GetRelationshipStatus(ctx context.Context, userID uuid.UUID) (*types.RelationshipStatusRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rels[userID], nil
}

func (f *fakeUserService) ListActiveUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uuid.UUID
	for id, u := range f.users {
		if u.Active {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (f *fakeUserService) UpdateTier(ctx context.Context, userID uuid.UUID, tier string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return ErrMissingProfileData
	}
	u.Tier = tier
	return nil
}

// recordingEvents captures Emit calls for assertions.
type recordingEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	UserID uuid.UUID
	Type   string
}

func (r *recordingEvents) Emit(ctx context.Context, userID uuid.UUID, eventType string, data map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{UserID: userID, Type: eventType})
}

func (r *recordingEvents) count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

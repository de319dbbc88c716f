package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/fincompass-backend/internal/types"
)

type fakeRelRepo struct {
	records map[uuid.UUID]*types.RelationshipStatusRecord
}

func newFakeRelRepo() *fakeRelRepo {
	return &fakeRelRepo{records: map[uuid.UUID]*types.RelationshipStatusRecord{}}
}

func (f *fakeRelRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.RelationshipStatusRecord, error) {
	return f.records[userID], nil
}

func (f *fakeRelRepo) Upsert(ctx context.Context, tx *gorm.DB, record *types.RelationshipStatusRecord) (*types.RelationshipStatusRecord, error) {
	if existing, ok := f.records[record.UserID]; ok {
		record.ID = existing.ID
	} else if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.records[record.UserID] = record
	return record, nil
}

func TestRelationshipUpdate(t *testing.T) {
	repo := newFakeRelRepo()
	svc := NewRelationshipService(nil, testLogger(), repo, nil)
	userID := uuid.New()

	t.Run("scores outside 1-10 are rejected", func(t *testing.T) {
		for _, scores := range [][2]int{{0, 5}, {11, 5}, {5, 0}, {5, 11}} {
			_, err := svc.Update(context.Background(), userID, "married", scores[0], scores[1])
			if !errors.Is(err, ErrInvalidScoreRange) {
				t.Fatalf("Update(%v) err = %v, want ErrInvalidScoreRange", scores, err)
			}
		}
	})

	t.Run("unknown status stored as other", func(t *testing.T) {
		saved, err := svc.Update(context.Background(), userID, "complicated", 7, 4)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if saved.Status != string(types.RelationshipOther) {
			t.Fatalf("status = %s, want other", saved.Status)
		}
	})

	t.Run("upsert keeps one record per user", func(t *testing.T) {
		first, err := svc.Update(context.Background(), userID, "dating", 6, 6)
		if err != nil {
			t.Fatalf("first Update: %v", err)
		}
		second, err := svc.Update(context.Background(), userID, "married", 9, 8)
		if err != nil {
			t.Fatalf("second Update: %v", err)
		}
		if second.ID != first.ID {
			t.Fatalf("second upsert created a new record: %s vs %s", second.ID, first.ID)
		}
		if second.Status != string(types.RelationshipMarried) || second.SatisfactionScore != 9 {
			t.Fatalf("record not updated: %+v", second)
		}
		if len(repo.records) != 1 {
			t.Fatalf("records = %d, want 1", len(repo.records))
		}
	})

	t.Run("missing user id rejected", func(t *testing.T) {
		if _, err := svc.Update(context.Background(), uuid.Nil, "married", 5, 5); err == nil {
			t.Fatal("nil user id accepted")
		}
	})
}

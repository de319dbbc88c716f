package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/fincompass-backend/internal/logger"
	"github.com/yungbote/fincompass-backend/internal/repos"
	"github.com/yungbote/fincompass-backend/internal/types"
)

// EventPublisher fans engine events out to the external metrics/notification
// consumers. The Redis bus implements this.
type EventPublisher interface {
	Publish(ctx context.Context, event *types.UserEvent) error
}

// EventService records engine observability events (content_generated,
// milestone_reached, cache_miss, batch_user_failed). Emission is
// best-effort: failures are logged and never surfaced to the caller.
type EventService interface {
	Emit(ctx context.Context, userID uuid.UUID, eventType string, data map[string]any)
}

type eventService struct {
	log       *logger.Logger
	repo      repos.UserEventRepo
	publisher EventPublisher
}

func NewEventService(baseLog *logger.Logger, repo repos.UserEventRepo, publisher EventPublisher) EventService {
	return &eventService{
		log:       baseLog.With("service", "EventService"),
		repo:      repo,
		publisher: publisher,
	}
}

func (es *eventService) Emit(ctx context.Context, userID uuid.UUID, eventType string, data map[string]any) {
	if userID == uuid.Nil || eventType == "" {
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339)

	raw, err := json.Marshal(data)
	if err != nil {
		es.log.Warn("event data marshal failed", "type", eventType, "user_id", userID, "error", err)
		return
	}
	event := &types.UserEvent{
		ID:     uuid.New(),
		UserID: userID,
		Type:   eventType,
		Data:   datatypes.JSON(raw),
	}

	if es.repo != nil {
		if _, err := es.repo.Create(ctx, nil, []*types.UserEvent{event}); err != nil {
			es.log.Warn("event persist failed", "type", eventType, "user_id", userID, "error", err)
		}
	}
	if es.publisher != nil {
		if err := es.publisher.Publish(ctx, event); err != nil {
			es.log.Warn("event publish failed", "type", eventType, "user_id", userID, "error", err)
		}
	}
}

package event

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/repository"
	"github.com/williamdagle/clinic-admin-api/pkg/logger"
)

// Emitter is the fire-and-forget side of the outbox. Emit never fails the
// caller: a write that cannot be recorded is logged and dropped. Delivery to
// consumers is at most once.
type Emitter interface {
	Emit(ctx context.Context, eventType string, payload interface{})
}

type Service struct {
	repo   repository.OutboxRepository
	logger *logger.Logger
}

func NewService(repo repository.OutboxRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error(err, "failed to marshal event payload", "event_type", eventType)
		return
	}

	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   body,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to record outbox event", "event_type", eventType)
	}
}

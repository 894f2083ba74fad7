package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/repository"
	"github.com/williamdagle/clinic-admin-api/pkg/logger"
)

// Service writes the audit sidecar. Entries are advisory: they are written
// without transactional linkage to the primary record and a failed write is
// logged, never surfaced to the caller.
type Service struct {
	repo   repository.AuditRepository
	logger *logger.Logger
}

func NewService(repo repository.AuditRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

type LogOptions struct {
	OldValues interface{}
	NewValues interface{}
	IPAddress string
	UserAgent string
}

func (s *Service) Log(ctx context.Context, userID uuid.UUID, scope model.TenantScope, action, entityType string, entityID uuid.UUID, opts *LogOptions) {
	entry := &model.AuditLog{
		ID:             uuid.New(),
		UserID:         userID,
		ClinicID:       scope.ClinicID,
		OrganizationID: scope.OrganizationID,
		Action:         action,
		EntityType:     entityType,
		EntityID:       entityID,
	}

	if opts != nil {
		entry.IPAddress = opts.IPAddress
		entry.UserAgent = opts.UserAgent
		if opts.OldValues != nil {
			if raw, err := json.Marshal(opts.OldValues); err == nil {
				entry.OldValues = raw
			}
		}
		if opts.NewValues != nil {
			if raw, err := json.Marshal(opts.NewValues); err == nil {
				entry.NewValues = raw
			}
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error(err, "failed to write audit log",
			"action", action, "entity_type", entityType)
	}
}

func (s *Service) List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, error) {
	return s.repo.List(ctx, filters)
}

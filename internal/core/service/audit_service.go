package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/ports"
)

// AuditService persists audit trail entries. It sits behind the dispatcher:
// entries arrive asynchronously and a failed insert is logged, never
// propagated back to the operation that produced it.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

// Process writes a single audit entry.
func (s *AuditService) Process(ctx context.Context, e domain.AuditEntry) error {
	if err := s.repo.Insert(ctx, &e); err != nil {
		s.log.Warn().Err(err).
			Str("actor", e.ActorUID).
			Str("action", e.Action).
			Msg("failed to persist audit entry")
		return err
	}
	return nil
}

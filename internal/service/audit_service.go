package service

import (
	"context"
	"sync"
	"time"

	"payulot/internal/core/domain"
	"payulot/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type auditService struct {
	repo ports.AdminActionRepository
	log  zerolog.Logger
	wg   sync.WaitGroup
}

// NewAuditService creates a new audit service.
// If repo is nil, audit entries are only written to the logger.
func NewAuditService(repo ports.AdminActionRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Begin records a pending audit row. Persistence is best-effort: a failure
// is logged and the primary operation proceeds.
func (s *auditService) Begin(ctx context.Context, action *domain.AdminAction) uuid.UUID {
	now := time.Now().UTC()
	action.ID = uuid.New()
	action.Status = domain.AdminActionPending
	action.RequestedAt = now
	action.CreatedAt = now

	s.log.Info().
		Str("audit_id", action.ID.String()).
		Str("action", action.Action).
		Str("performed_by", action.PerformedBy.String()).
		Msg("admin action started")

	if s.repo != nil {
		if err := s.repo.Create(ctx, action); err != nil {
			s.log.Warn().Err(err).Str("action", action.Action).Msg("failed to persist audit row")
		}
	}
	return action.ID
}

// Completed appends the terminal completed status asynchronously. The write
// is tracked so Wait can drain it during shutdown.
func (s *auditService) Completed(ctx context.Context, id uuid.UUID) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.log.Info().Str("audit_id", id.String()).Msg("admin action completed")
		if s.repo != nil {
			if err := s.repo.MarkCompleted(context.Background(), id); err != nil {
				s.log.Warn().Err(err).Str("audit_id", id.String()).Msg("failed to mark audit row completed")
			}
		}
	}()
}

// Failed appends the terminal failed status asynchronously. The write is
// tracked so Wait can drain it during shutdown.
func (s *auditService) Failed(ctx context.Context, id uuid.UUID, cause error) {
	message := "unknown failure"
	if cause != nil {
		message = cause.Error()
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.log.Warn().Str("audit_id", id.String()).Str("cause", message).Msg("admin action failed")
		if s.repo != nil {
			if err := s.repo.MarkFailed(context.Background(), id, message); err != nil {
				s.log.Warn().Err(err).Str("audit_id", id.String()).Msg("failed to mark audit row failed")
			}
		}
	}()
}

// Wait blocks until every in-flight terminal-status write has finished.
// Called from the process shutdown path so audit outcomes are not lost.
func (s *auditService) Wait() {
	s.wg.Wait()
}

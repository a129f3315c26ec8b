package service

import (
	"context"
	"time"

	"payulot/internal/core/domain"
	"payulot/internal/core/ports"
	"payulot/pkg/apperror"

	"github.com/google/uuid"
)

const defaultRecentLimit = 50

// reportingService implements ports.ReportingService.
type reportingService struct {
	txRepo ports.TransactionRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(txRepo ports.TransactionRepository) ports.ReportingService {
	return &reportingService{txRepo: txRepo}
}

// Recent returns the newest ledger entries platform-wide.
func (s *reportingService) Recent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultRecentLimit
	}
	entries, err := s.txRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return entries, nil
}

// ForUser returns a user's ledger entries, newest first, with the unpaged
// total.
func (s *reportingService) ForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultRecentLimit
	}
	if offset < 0 {
		offset = 0
	}
	entries, total, err := s.txRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, apperror.InternalError(err)
	}
	return entries, total, nil
}

// Report aggregates ledger activity over the given period.
func (s *reportingService) Report(ctx context.Context, period string) (*ports.LedgerReport, error) {
	var from *time.Time

	switch period {
	case "day":
		t := time.Now().AddDate(0, 0, -1)
		from = &t
	case "week":
		t := time.Now().AddDate(0, 0, -7)
		from = &t
	case "month":
		t := time.Now().AddDate(0, -1, 0)
		from = &t
	case "all", "":
		// No time filter
	default:
		return nil, apperror.Validation("invalid period: must be day, week, month, or all")
	}

	report, err := s.txRepo.GetReport(ctx, from, nil)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return report, nil
}

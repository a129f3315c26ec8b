package postgres

import (
	"context"
	"fmt"
	"time"

	"payulot/internal/core/domain"

	"github.com/google/uuid"
)

// AdminActionRepo implements ports.AdminActionRepository. The table is
// append-only except for moving a pending row to a terminal status.
type AdminActionRepo struct {
	pool Pool
}

// NewAdminActionRepo creates a new AdminActionRepo.
func NewAdminActionRepo(pool Pool) *AdminActionRepo {
	return &AdminActionRepo{pool: pool}
}

// Create inserts a pending audit row.
func (r *AdminActionRepo) Create(ctx context.Context, a *domain.AdminAction) error {
	query := `INSERT INTO admin_actions (id, performed_by, action, target_user_id, target_id, action_type, status, requested_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.PerformedBy, a.Action, a.TargetUserID, a.TargetID,
		a.ActionType, a.Status, a.RequestedAt, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert admin action: %w", err)
	}
	return nil
}

// MarkCompleted moves a pending audit row to completed.
func (r *AdminActionRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE admin_actions SET status = 'completed', completed_at = $2
		WHERE id = $1 AND status = 'pending'`

	tag, err := r.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("mark admin action completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pending admin action not found: %s", id)
	}
	return nil
}

// MarkFailed moves a pending audit row to failed with the cause message.
func (r *AdminActionRepo) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `UPDATE admin_actions SET status = 'failed', failed_at = $2, error_message = $3
		WHERE id = $1 AND status = 'pending'`

	tag, err := r.pool.Exec(ctx, query, id, time.Now(), errorMessage)
	if err != nil {
		return fmt.Errorf("mark admin action failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pending admin action not found: %s", id)
	}
	return nil
}

// ListByAdmin fetches a staff member's recent audit rows, newest first.
func (r *AdminActionRepo) ListByAdmin(ctx context.Context, adminID uuid.UUID, limit int) ([]domain.AdminAction, error) {
	query := `SELECT id, performed_by, action, target_user_id, target_id, action_type, status,
		error_message, requested_at, completed_at, failed_at, created_at
		FROM admin_actions WHERE performed_by = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, adminID, limit)
	if err != nil {
		return nil, fmt.Errorf("list admin actions: %w", err)
	}
	defer rows.Close()

	var actions []domain.AdminAction
	for rows.Next() {
		a := domain.AdminAction{}
		err := rows.Scan(
			&a.ID, &a.PerformedBy, &a.Action, &a.TargetUserID, &a.TargetID, &a.ActionType, &a.Status,
			&a.ErrorMessage, &a.RequestedAt, &a.CompletedAt, &a.FailedAt, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan admin action row: %w", err)
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin action rows: %w", err)
	}
	return actions, nil
}

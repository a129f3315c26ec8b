package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"payulot/internal/core/domain"
	"payulot/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const transferColumns = `t.id, t.user_id, t.bank_account_id, t.amount_cents, t.status, t.requested_at,
	t.claimed_by, t.claimed_at, t.completed_at, t.bank_reference, t.reject_reason`

// TransferRepo implements ports.TransferRepository. State transitions are
// single conditional UPDATEs whose WHERE clause carries the guard, so two
// racing staff members cannot both win a claim.
type TransferRepo struct {
	pool Pool
}

// NewTransferRepo creates a new TransferRepo.
func NewTransferRepo(pool Pool) *TransferRepo {
	return &TransferRepo{pool: pool}
}

// Create inserts a new payout request in the pending state.
func (r *TransferRepo) Create(ctx context.Context, t *domain.Transfer) error {
	query := `INSERT INTO transfers (id, user_id, bank_account_id, amount_cents, status, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.UserID, t.BankAccountID, t.AmountCents, t.Status, t.RequestedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// GetByID fetches a transfer by UUID.
func (r *TransferRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers t WHERE t.id = $1`

	t := &domain.Transfer{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.BankAccountID, &t.AmountCents, &t.Status, &t.RequestedAt,
		&t.ClaimedBy, &t.ClaimedAt, &t.CompletedAt, &t.BankReference, &t.RejectReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer by id: %w", err)
	}
	return t, nil
}

// List fetches transfers with filtering and pagination, newest first.
func (r *TransferRepo) List(ctx context.Context, params ports.TransferListParams) ([]domain.Transfer, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.Start != nil {
		conditions = append(conditions, fmt.Sprintf("t.requested_at >= $%d", argIdx))
		args = append(args, *params.Start)
		argIdx++
	}
	if params.End != nil {
		conditions = append(conditions, fmt.Sprintf("t.requested_at <= $%d", argIdx))
		args = append(args, *params.End)
		argIdx++
	}
	if params.Bank != nil {
		conditions = append(conditions, fmt.Sprintf(
			"t.bank_account_id IN (SELECT id FROM bank_accounts WHERE bank_name ILIKE $%d)", argIdx))
		args = append(args, *params.Bank)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transfers t %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transfers: %w", err)
	}

	dataQuery := fmt.Sprintf(`SELECT `+transferColumns+` FROM transfers t %s
		ORDER BY t.requested_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []domain.Transfer
	for rows.Next() {
		t := domain.Transfer{}
		err := rows.Scan(
			&t.ID, &t.UserID, &t.BankAccountID, &t.AmountCents, &t.Status, &t.RequestedAt,
			&t.ClaimedBy, &t.ClaimedAt, &t.CompletedAt, &t.BankReference, &t.RejectReason,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transfer row: %w", err)
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transfer rows: %w", err)
	}
	return transfers, total, nil
}

// Claim moves a pending transfer to claimed by the given actor. Re-claiming
// a transfer the actor already holds is a no-op success; the COALESCE keeps
// the original claim time.
func (r *TransferRepo) Claim(ctx context.Context, id, actorID uuid.UUID) (bool, error) {
	query := `UPDATE transfers
		SET status = 'claimed', claimed_by = $2, claimed_at = COALESCE(claimed_at, now())
		WHERE id = $1 AND (status = 'pending' OR (status = 'claimed' AND claimed_by = $2))`

	tag, err := r.pool.Exec(ctx, query, id, actorID)
	if err != nil {
		return false, fmt.Errorf("claim transfer: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Release returns a transfer claimed by the actor to the pending pool.
func (r *TransferRepo) Release(ctx context.Context, id, actorID uuid.UUID) (bool, error) {
	query := `UPDATE transfers
		SET status = 'pending', claimed_by = NULL, claimed_at = NULL
		WHERE id = $1 AND status = 'claimed' AND claimed_by = $2`

	tag, err := r.pool.Exec(ctx, query, id, actorID)
	if err != nil {
		return false, fmt.Errorf("release transfer: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Complete marks a transfer completed within a database transaction, so the
// status change commits atomically with the ledger movement.
func (r *TransferRepo) Complete(ctx context.Context, tx pgx.Tx, id, actorID uuid.UUID, bankReference string) (bool, error) {
	query := `UPDATE transfers
		SET status = 'completed', completed_at = $3, bank_reference = $4
		WHERE id = $1 AND status = 'claimed' AND claimed_by = $2`

	tag, err := tx.Exec(ctx, query, id, actorID, time.Now(), bankReference)
	if err != nil {
		return false, fmt.Errorf("complete transfer: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Reject terminally declines a transfer that is pending or claimed by the
// actor.
func (r *TransferRepo) Reject(ctx context.Context, id, actorID uuid.UUID, reason string) (bool, error) {
	query := `UPDATE transfers
		SET status = 'rejected', reject_reason = $3
		WHERE id = $1 AND (status = 'pending' OR (status = 'claimed' AND claimed_by = $2))`

	tag, err := r.pool.Exec(ctx, query, id, actorID, reason)
	if err != nil {
		return false, fmt.Errorf("reject transfer: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

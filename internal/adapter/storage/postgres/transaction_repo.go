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

const transactionColumns = `id, wallet_id, user_id, entry_type, amount_cents, note, category,
	vendor_id, sender_id, recipient_id, treasury_wallet_id, created_at`

// TransactionRepo implements ports.TransactionRepository. Ledger entries are
// append-only; there are no update or delete operations.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a ledger entry within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, wallet_id, user_id, entry_type, amount_cents, note, category,
		vendor_id, sender_id, recipient_id, treasury_wallet_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.WalletID, t.UserID, t.EntryType, t.AmountCents, t.Note, t.Category,
		t.VendorID, t.SenderID, t.RecipientID, t.TreasuryWalletID, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a ledger entry by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return r.scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// ListRecent fetches the newest ledger entries across all wallets.
func (r *TransactionRepo) ListRecent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY created_at DESC, id LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()

	return r.collectRows(rows)
}

// ListByUser fetches a user's ledger entries (both sides they appear on)
// with pagination, newest first.
func (r *TransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, int64, error) {
	where := `WHERE user_id = $1 OR sender_id = $1 OR recipient_id = $1 OR vendor_id = $1`

	var total int64
	countQuery := `SELECT COUNT(*) FROM transactions ` + where
	if err := r.pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count user transactions: %w", err)
	}

	dataQuery := `SELECT ` + transactionColumns + ` FROM transactions ` + where +
		` ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, dataQuery, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list user transactions: %w", err)
	}
	defer rows.Close()

	txns, err := r.collectRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// GetReport aggregates ledger activity over an optional time window.
func (r *TransactionRepo) GetReport(ctx context.Context, from, to *time.Time) (*ports.LedgerReport, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if from != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *from)
		argIdx++
	}
	if to != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argIdx))
		args = append(args, *to)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE entry_type = 'debit') AS debits,
		COUNT(*) FILTER (WHERE entry_type = 'credit') AS credits,
		COALESCE(SUM(amount_cents) FILTER (WHERE entry_type = 'debit'), 0) AS debit_cents,
		COALESCE(SUM(amount_cents) FILTER (WHERE entry_type = 'credit'), 0) AS credit_cents,
		COALESCE(SUM(amount_cents) FILTER (WHERE entry_type = 'credit' AND category = 'treasury-funding'), 0) AS treasury_funded,
		COALESCE(SUM(amount_cents) FILTER (WHERE entry_type = 'debit' AND category = 'vendor-charge'), 0) AS vendor_charged,
		COALESCE(SUM(amount_cents) FILTER (WHERE entry_type = 'debit' AND category = 'bank-transfer'), 0) AS bank_transferred,
		COALESCE(SUM(CASE WHEN entry_type = 'credit' THEN amount_cents ELSE -amount_cents END)
			FILTER (WHERE category = 'treasury-adjustment'), 0) AS treasury_adjusted
		FROM transactions %s`, where)

	report := &ports.LedgerReport{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&report.TotalEntries, &report.DebitEntries, &report.CreditEntries,
		&report.DebitCents, &report.CreditCents,
		&report.TreasuryFunded, &report.VendorCharged, &report.BankTransferred,
		&report.TreasuryAdjusted,
	)
	if err != nil {
		return nil, fmt.Errorf("get ledger report: %w", err)
	}
	return report, nil
}

func (r *TransactionRepo) collectRows(rows pgx.Rows) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.WalletID, &t.UserID, &t.EntryType, &t.AmountCents, &t.Note, &t.Category,
			&t.VendorID, &t.SenderID, &t.RecipientID, &t.TreasuryWalletID, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

func (r *TransactionRepo) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.WalletID, &t.UserID, &t.EntryType, &t.AmountCents, &t.Note, &t.Category,
		&t.VendorID, &t.SenderID, &t.RecipientID, &t.TreasuryWalletID, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}

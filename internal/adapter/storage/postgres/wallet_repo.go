package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payulot/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const walletColumns = `id, user_id, balance_cents, status, is_treasury, is_merchant, created_at, updated_at`

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new wallet into the database.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, user_id, balance_cents, status, is_treasury, is_merchant, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.UserID, w.BalanceCents, w.Status,
		w.IsTreasury, w.IsMerchant, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID fetches a wallet by its UUID (without locking).
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`
	return r.scanWallet(r.pool.QueryRow(ctx, query, id), "get wallet by id")
}

// GetByUserID fetches a user's benefit wallet (non-locking read).
func (r *WalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 AND is_merchant = false`
	return r.scanWallet(r.pool.QueryRow(ctx, query, userID), "get wallet by user id")
}

// GetMerchantByUserID fetches a vendor's receiving wallet.
func (r *WalletRepo) GetMerchantByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 AND is_merchant = true`
	return r.scanWallet(r.pool.QueryRow(ctx, query, userID), "get merchant wallet by user id")
}

// GetTreasury fetches the platform treasury wallet.
func (r *WalletRepo) GetTreasury(ctx context.Context) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE is_treasury = true`
	return r.scanWallet(r.pool.QueryRow(ctx, query), "get treasury wallet")
}

// GetByIDForUpdate fetches a wallet by UUID with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`
	return r.scanWallet(tx.QueryRow(ctx, query, id), "get wallet for update")
}

// UpdateBalance sets a wallet's balance within a database transaction.
func (r *WalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balanceCents int64) error {
	query := `UPDATE wallets SET balance_cents = $1, updated_at = $2 WHERE id = $3`

	tag, err := tx.Exec(ctx, query, balanceCents, time.Now(), walletID)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

func (r *WalletRepo) scanWallet(row pgx.Row, op string) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(
		&w.ID, &w.UserID, &w.BalanceCents, &w.Status,
		&w.IsTreasury, &w.IsMerchant, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return w, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"payulot/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BankAccountRepo implements ports.BankAccountRepository.
type BankAccountRepo struct {
	pool Pool
}

// NewBankAccountRepo creates a new BankAccountRepo.
func NewBankAccountRepo(pool Pool) *BankAccountRepo {
	return &BankAccountRepo{pool: pool}
}

// Create inserts a saved payout destination.
func (r *BankAccountRepo) Create(ctx context.Context, a *domain.BankAccount) error {
	query := `INSERT INTO bank_accounts (id, user_id, holder_name, bank_name, account_number, routing_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.UserID, a.HolderName, a.BankName, a.AccountNumber, a.RoutingNumber, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bank account: %w", err)
	}
	return nil
}

// GetByID fetches a bank account by UUID.
func (r *BankAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BankAccount, error) {
	query := `SELECT id, user_id, holder_name, bank_name, account_number, routing_number, created_at
		FROM bank_accounts WHERE id = $1`

	a := &domain.BankAccount{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.HolderName, &a.BankName, &a.AccountNumber, &a.RoutingNumber, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bank account by id: %w", err)
	}
	return a, nil
}

// ListByUser fetches a user's saved payout destinations, newest first.
func (r *BankAccountRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.BankAccount, error) {
	query := `SELECT id, user_id, holder_name, bank_name, account_number, routing_number, created_at
		FROM bank_accounts WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.BankAccount
	for rows.Next() {
		a := domain.BankAccount{}
		err := rows.Scan(
			&a.ID, &a.UserID, &a.HolderName, &a.BankName, &a.AccountNumber, &a.RoutingNumber, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan bank account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bank account rows: %w", err)
	}
	return accounts, nil
}

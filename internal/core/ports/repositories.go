package ports

import (
	"context"
	"time"

	"payulot/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for
// pessimistic locking.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	GetMerchantByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	// GetTreasury returns the platform treasury wallet.
	GetTreasury(ctx context.Context) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balanceCents int64) error
}

// TransactionRepository defines persistence for immutable ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, entry *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, int64, error)
	GetReport(ctx context.Context, from, to *time.Time) (*LedgerReport, error)
}

// LedgerReport aggregates ledger activity for the reporting endpoints.
type LedgerReport struct {
	TotalEntries      int64
	DebitEntries      int64
	CreditEntries     int64
	DebitCents        int64
	CreditCents       int64
	TreasuryFunded    int64 // Sum of treasury-funding credits
	VendorCharged     int64 // Sum of vendor-charge debits
	BankTransferred   int64 // Sum of bank-transfer debits
	TreasuryAdjusted  int64 // Net of treasury-adjustment entries
}

// TransferRepository defines persistence for payout transfer requests.
// Claim/Release/Reject are single conditional UPDATEs: the WHERE clause
// encodes the state and ownership guards, and a false return means the
// guard failed (the transfer was not available for that transition).
type TransferRepository interface {
	Create(ctx context.Context, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error)
	List(ctx context.Context, params TransferListParams) ([]domain.Transfer, int64, error)
	Claim(ctx context.Context, id, actorID uuid.UUID) (bool, error)
	Release(ctx context.Context, id, actorID uuid.UUID) (bool, error)
	Complete(ctx context.Context, tx pgx.Tx, id, actorID uuid.UUID, bankReference string) (bool, error)
	Reject(ctx context.Context, id, actorID uuid.UUID, reason string) (bool, error)
}

// TransferListParams holds filter + pagination for listing transfers.
type TransferListParams struct {
	Status *domain.TransferStatus
	Start  *time.Time
	End    *time.Time
	Bank   *string
	Limit  int
	Offset int
}

// PassportRepository defines persistence for point-of-sale passports.
type PassportRepository interface {
	Create(ctx context.Context, passport *domain.Passport) error
	// GetByPassportID performs a case-sensitive exact match against active
	// passports.
	GetByPassportID(ctx context.Context, passportID string) (*domain.Passport, error)
}

// BankAccountRepository defines persistence for saved payout destinations.
type BankAccountRepository interface {
	Create(ctx context.Context, account *domain.BankAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BankAccount, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.BankAccount, error)
}

// UserRepository defines persistence for platform users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AdminActionRepository defines append-only persistence for the audit log.
// Rows are only ever inserted or moved to a terminal status.
type AdminActionRepository interface {
	Create(ctx context.Context, action *domain.AdminAction) error
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
	ListByAdmin(ctx context.Context, adminID uuid.UUID, limit int) ([]domain.AdminAction, error)
}

// IdempotencyRepository defines persistence for charge idempotency records
// (DB backup behind the redis fast path).
type IdempotencyRepository interface {
	Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error
	Get(ctx context.Context, key string) (*domain.IdempotencyLog, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

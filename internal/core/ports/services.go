package ports

import (
	"context"
	"time"

	"payulot/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// --- Service Ports (Business Logic) ---

// LedgerService is the atomic balance-mutation primitive. Every money-moving
// operation goes through it.
type LedgerService interface {
	// Move executes a full transfer in its own database transaction.
	Move(ctx context.Context, p MoveParams) (*MoveResult, error)
	// MoveTx executes a transfer inside an existing database transaction,
	// for callers composing the movement with other writes. The caller owns
	// commit/rollback.
	MoveTx(ctx context.Context, tx pgx.Tx, p MoveParams) (*MoveResult, error)
}

// MoveParams holds validated input for a wallet-to-wallet movement.
type MoveParams struct {
	SourceWalletID uuid.UUID
	DestWalletID   uuid.UUID
	AmountCents    int64
	ActorID        uuid.UUID
	Note           string
	Category       string
	// Optional tags carried onto both ledger rows.
	VendorID         *uuid.UUID
	SenderID         *uuid.UUID
	RecipientID      *uuid.UUID
	TreasuryWalletID *uuid.UUID
	// LenientSource logs a warning and proceeds when the source wallet is
	// not active, instead of failing. Only treasury funding sets this.
	LenientSource bool
}

// MoveResult holds the matched ledger pair written for a movement.
type MoveResult struct {
	Debit  *domain.Transaction
	Credit *domain.Transaction
}

// TreasuryService moves funds out of the government treasury.
type TreasuryService interface {
	AddFunds(ctx context.Context, req FundRequest) (*MoveResult, error)
	Adjust(ctx context.Context, req AdjustRequest) (*domain.Transaction, error)
}

// FundRequest holds validated input for treasury funding.
type FundRequest struct {
	Actor            domain.Actor
	TreasuryWalletID uuid.UUID
	WalletID         uuid.UUID
	UserID           uuid.UUID
	AmountDollars    float64
	Note             string
	AddedBy          uuid.UUID
}

// AdjustRequest holds validated input for a direct treasury correction.
// Positive amounts credit the treasury wallet, negative amounts debit it.
type AdjustRequest struct {
	Actor            domain.Actor
	TreasuryWalletID uuid.UUID
	AmountDollars    float64
	Note             string
}

// ChargeService executes passport-based point-of-sale charges.
type ChargeService interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// ChargeRequest holds validated input for a vendor charge.
type ChargeRequest struct {
	Actor          domain.Actor
	PassportID     string
	AmountDollars  float64
	Note           string
	IdempotencyKey *string
}

// ChargeResult is the success payload for a vendor charge.
type ChargeResult struct {
	Status      string    `json:"status"`
	AmountCents int64     `json:"amount_cents"`
	VendorID    uuid.UUID `json:"vendor_id"`
	BuyerID     uuid.UUID `json:"buyer_id"`
	Txns        ChargePair `json:"txns"`
}

// ChargePair carries the ids of the matched ledger rows for a charge.
type ChargePair struct {
	DebitID  uuid.UUID `json:"debit_id"`
	CreditID uuid.UUID `json:"credit_id"`
}

// PayoutService owns the bank payout claim workflow.
type PayoutService interface {
	Request(ctx context.Context, req PayoutRequest) (*domain.Transfer, error)
	List(ctx context.Context, actor domain.Actor, params TransferListParams) ([]domain.Transfer, int64, error)
	Claim(ctx context.Context, actor domain.Actor, transferID uuid.UUID) (*domain.Transfer, error)
	Release(ctx context.Context, actor domain.Actor, transferID uuid.UUID) (*domain.Transfer, error)
	Complete(ctx context.Context, actor domain.Actor, transferID uuid.UUID, bankReference string) (*domain.Transfer, error)
	Reject(ctx context.Context, actor domain.Actor, transferID uuid.UUID, reason string) (*domain.Transfer, error)
}

// PayoutRequest holds validated input for a cardholder payout request.
type PayoutRequest struct {
	Actor         domain.Actor
	BankAccountID uuid.UUID
	AmountDollars float64
}

// PassportService issues point-of-sale passports.
type PassportService interface {
	// Issue creates a passport for the user's wallet. The plaintext
	// pid_token is returned once and stored only as a hash.
	Issue(ctx context.Context, actor domain.Actor, userID uuid.UUID) (*IssuedPassport, error)
}

// IssuedPassport is the one-time issuance result.
type IssuedPassport struct {
	PassportID string `json:"passport_id"`
	PIDToken   string `json:"pid_token"`
}

// ReportingService provides read-only ledger views.
type ReportingService interface {
	Recent(ctx context.Context, limit int) ([]domain.Transaction, error)
	ForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, int64, error)
	Report(ctx context.Context, period string) (*LedgerReport, error)
}

// AuditService records privileged operations. Recording is best-effort: its
// failure must never fail the primary operation.
type AuditService interface {
	// Begin inserts a pending audit row and returns its id.
	Begin(ctx context.Context, action *domain.AdminAction) uuid.UUID
	// Completed appends the terminal completed status.
	Completed(ctx context.Context, id uuid.UUID)
	// Failed appends the terminal failed status with a reason.
	Failed(ctx context.Context, id uuid.UUID, cause error)
	// Wait blocks until all in-flight terminal-status writes have finished.
	Wait()
}

// TokenService handles session token operations.
type TokenService interface {
	Generate(actor domain.Actor) (string, time.Time, error)
	Validate(tokenString string) (*domain.Actor, error)
}

// HashService hashes and verifies passport pid_tokens.
type HashService interface {
	Hash(token string) (string, error)
	Verify(token string, hash string) (bool, error)
}

// IdempotencyCache is the redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

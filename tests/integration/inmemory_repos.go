package integration

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"payulot/internal/core/domain"
	"payulot/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[uuid.UUID]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	r.wallets[w.ID] = &cp
	return nil
}

func (r *inMemoryWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.UserID == userID && !w.IsMerchant {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) GetMerchantByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.UserID == userID && w.IsMerchant {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) GetTreasury(ctx context.Context) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.IsTreasury {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balanceCents int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	w.BalanceCents = balanceCents
	w.UpdatedAt = time.Now()
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu      sync.RWMutex
	entries []domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, entry *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.entries {
		if r.entries[i].ID == id {
			cp := r.entries[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) ListRecent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Transaction, len(r.entries))
	copy(result, r.entries)
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (r *inMemoryTransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []domain.Transaction
	for _, e := range r.entries {
		if e.UserID == userID ||
			(e.SenderID != nil && *e.SenderID == userID) ||
			(e.RecipientID != nil && *e.RecipientID == userID) ||
			(e.VendorID != nil && *e.VendorID == userID) {
			matched = append(matched, e)
		}
	}
	total := int64(len(matched))
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if offset >= len(matched) {
		return []domain.Transaction{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *inMemoryTransactionRepo) GetReport(ctx context.Context, from, to *time.Time) (*ports.LedgerReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report := &ports.LedgerReport{}
	for _, e := range r.entries {
		if from != nil && e.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && e.CreatedAt.After(*to) {
			continue
		}
		report.TotalEntries++
		switch e.EntryType {
		case domain.EntryTypeDebit:
			report.DebitEntries++
			report.DebitCents += e.AmountCents
		case domain.EntryTypeCredit:
			report.CreditEntries++
			report.CreditCents += e.AmountCents
		}
		switch e.Category {
		case domain.CategoryTreasuryFunding:
			if e.EntryType == domain.EntryTypeCredit {
				report.TreasuryFunded += e.AmountCents
			}
		case domain.CategoryVendorCharge:
			if e.EntryType == domain.EntryTypeDebit {
				report.VendorCharged += e.AmountCents
			}
		case domain.CategoryBankTransfer:
			if e.EntryType == domain.EntryTypeDebit {
				report.BankTransferred += e.AmountCents
			}
		case domain.CategoryTreasuryAdjustment:
			if e.EntryType == domain.EntryTypeCredit {
				report.TreasuryAdjusted += e.AmountCents
			} else {
				report.TreasuryAdjusted -= e.AmountCents
			}
		}
	}
	return report, nil
}

// --- In-Memory Transfer Repo ---

type inMemoryTransferRepo struct {
	mu        sync.Mutex
	transfers map[uuid.UUID]*domain.Transfer
}

func newInMemoryTransferRepo() *inMemoryTransferRepo {
	return &inMemoryTransferRepo{transfers: make(map[uuid.UUID]*domain.Transfer)}
}

func (r *inMemoryTransferRepo) Create(ctx context.Context, t *domain.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.transfers[t.ID] = &cp
	return nil
}

func (r *inMemoryTransferRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transfers[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *inMemoryTransferRepo) List(ctx context.Context, params ports.TransferListParams) ([]domain.Transfer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []domain.Transfer
	for _, t := range r.transfers {
		if params.Status != nil && t.Status != *params.Status {
			continue
		}
		if params.Start != nil && t.RequestedAt.Before(*params.Start) {
			continue
		}
		if params.End != nil && t.RequestedAt.After(*params.End) {
			continue
		}
		matched = append(matched, *t)
	}
	total := int64(len(matched))
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].RequestedAt.After(matched[j].RequestedAt)
	})
	if params.Offset >= len(matched) {
		return []domain.Transfer{}, total, nil
	}
	end := params.Offset + params.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[params.Offset:end], total, nil
}

// Claim mirrors the conditional UPDATE guard: pending, or already claimed by
// the same actor.
func (r *inMemoryTransferRepo) Claim(ctx context.Context, id, actorID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transfers[id]
	if !ok {
		return false, nil
	}
	if t.Status == domain.TransferStatusPending ||
		(t.Status == domain.TransferStatusClaimed && t.ClaimedBy != nil && *t.ClaimedBy == actorID) {
		t.Status = domain.TransferStatusClaimed
		t.ClaimedBy = &actorID
		if t.ClaimedAt == nil {
			now := time.Now()
			t.ClaimedAt = &now
		}
		return true, nil
	}
	return false, nil
}

func (r *inMemoryTransferRepo) Release(ctx context.Context, id, actorID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transfers[id]
	if !ok {
		return false, nil
	}
	if t.Status == domain.TransferStatusClaimed && t.ClaimedBy != nil && *t.ClaimedBy == actorID {
		t.Status = domain.TransferStatusPending
		t.ClaimedBy = nil
		t.ClaimedAt = nil
		return true, nil
	}
	return false, nil
}

func (r *inMemoryTransferRepo) Complete(ctx context.Context, tx pgx.Tx, id, actorID uuid.UUID, bankReference string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transfers[id]
	if !ok {
		return false, nil
	}
	if t.Status == domain.TransferStatusClaimed && t.ClaimedBy != nil && *t.ClaimedBy == actorID {
		now := time.Now()
		t.Status = domain.TransferStatusCompleted
		t.CompletedAt = &now
		t.BankReference = &bankReference
		return true, nil
	}
	return false, nil
}

func (r *inMemoryTransferRepo) Reject(ctx context.Context, id, actorID uuid.UUID, reason string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transfers[id]
	if !ok {
		return false, nil
	}
	if t.Status == domain.TransferStatusPending ||
		(t.Status == domain.TransferStatusClaimed && t.ClaimedBy != nil && *t.ClaimedBy == actorID) {
		t.Status = domain.TransferStatusRejected
		t.RejectReason = &reason
		return true, nil
	}
	return false, nil
}

// --- In-Memory Passport Repo ---

type inMemoryPassportRepo struct {
	mu        sync.RWMutex
	passports map[uuid.UUID]*domain.Passport
}

func newInMemoryPassportRepo() *inMemoryPassportRepo {
	return &inMemoryPassportRepo{passports: make(map[uuid.UUID]*domain.Passport)}
}

func (r *inMemoryPassportRepo) Create(ctx context.Context, p *domain.Passport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.passports {
		if existing.Active && strings.EqualFold(existing.PassportID, p.PassportID) {
			return fmt.Errorf("passport id already exists")
		}
	}
	cp := *p
	r.passports[p.ID] = &cp
	return nil
}

// GetByPassportID is a case-sensitive exact match, like the postgres query.
func (r *inMemoryPassportRepo) GetByPassportID(ctx context.Context, passportID string) (*domain.Passport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.passports {
		if p.PassportID == passportID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// --- In-Memory Bank Account Repo ---

type inMemoryBankAccountRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.BankAccount
}

func newInMemoryBankAccountRepo() *inMemoryBankAccountRepo {
	return &inMemoryBankAccountRepo{accounts: make(map[uuid.UUID]*domain.BankAccount)}
}

func (r *inMemoryBankAccountRepo) Create(ctx context.Context, a *domain.BankAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

func (r *inMemoryBankAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BankAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryBankAccountRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.BankAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.BankAccount
	for _, a := range r.accounts {
		if a.UserID == userID {
			result = append(result, *a)
		}
	}
	return result, nil
}

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// --- In-Memory Admin Action Repo ---

type inMemoryAdminActionRepo struct {
	mu      sync.RWMutex
	actions map[uuid.UUID]*domain.AdminAction
}

func newInMemoryAdminActionRepo() *inMemoryAdminActionRepo {
	return &inMemoryAdminActionRepo{actions: make(map[uuid.UUID]*domain.AdminAction)}
}

func (r *inMemoryAdminActionRepo) Create(ctx context.Context, a *domain.AdminAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.actions[a.ID] = &cp
	return nil
}

func (r *inMemoryAdminActionRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.actions[id]
	if !ok || a.Status != domain.AdminActionPending {
		return fmt.Errorf("pending action not found")
	}
	now := time.Now()
	a.Status = domain.AdminActionCompleted
	a.CompletedAt = &now
	return nil
}

func (r *inMemoryAdminActionRepo) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.actions[id]
	if !ok || a.Status != domain.AdminActionPending {
		return fmt.Errorf("pending action not found")
	}
	now := time.Now()
	a.Status = domain.AdminActionFailed
	a.ErrorMessage = &errorMessage
	a.FailedAt = &now
	return nil
}

func (r *inMemoryAdminActionRepo) ListByAdmin(ctx context.Context, adminID uuid.UUID, limit int) ([]domain.AdminAction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.AdminAction
	for _, a := range r.actions {
		if a.PerformedBy == adminID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RequestedAt.After(result[j].RequestedAt)
	})
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

// countByStatus is a test helper for asserting audit outcomes.
func (r *inMemoryAdminActionRepo) countByStatus(action string, status domain.AdminActionStatus) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, a := range r.actions {
		if a.Action == action && a.Status == status {
			n++
		}
	}
	return n
}

// --- In-Memory Idempotency Repo ---

type inMemoryIdempotencyRepo struct {
	mu   sync.RWMutex
	logs map[string]*domain.IdempotencyLog
}

func newInMemoryIdempotencyRepo() *inMemoryIdempotencyRepo {
	return &inMemoryIdempotencyRepo{logs: make(map[string]*domain.IdempotencyLog)}
}

func (r *inMemoryIdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[log.Key] = log
	return nil
}

func (r *inMemoryIdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.logs[key]
	if !ok {
		return nil, nil
	}
	return l, nil
}

// --- Serializing Transactor ---

// serialTransactor hands out transactions one at a time: Begin blocks until
// the previous transaction commits or rolls back. This stands in for the
// row locks the postgres layer takes, keeping concurrent ledger movements
// correct against the in-memory repositories.
type serialTransactor struct {
	mu sync.Mutex
}

func newSerialTransactor() *serialTransactor {
	return &serialTransactor{}
}

func (t *serialTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &memTx{release: &t.mu}, nil
}

// memTx is a no-op pgx.Tx that releases the transactor on the first Commit
// or Rollback.
type memTx struct {
	release *sync.Mutex
	done    sync.Once
}

func (t *memTx) finish() {
	t.done.Do(func() { t.release.Unlock() })
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) Commit(ctx context.Context) error          { t.finish(); return nil }
func (t *memTx) Rollback(ctx context.Context) error        { t.finish(); return nil }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *memTx) Conn() *pgx.Conn { return nil }

package service

import (
	"context"
	"fmt"
	"time"

	"payulot/internal/core/domain"
	"payulot/internal/core/ports"
	"payulot/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService. Every movement writes a
// debit/credit pair inside one database transaction with both wallet rows
// locked, so wallet balances always equal the sum of their entries.
type LedgerServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		transactor: transactor,
		log:        log,
	}
}

// Move executes a balanced movement in its own database transaction.
func (s *LedgerServiceImpl) Move(ctx context.Context, params ports.MoveParams) (*ports.MoveResult, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	result, err := s.MoveTx(ctx, dbTx, params)
	if err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("debit_id", result.Debit.ID.String()).
		Str("credit_id", result.Credit.ID.String()).
		Str("category", params.Category).
		Int64("amount_cents", params.AmountCents).
		Msg("ledger movement committed")

	return result, nil
}

// MoveTx executes a balanced movement inside the caller's transaction. The
// caller owns commit and rollback; any error leaves the ledger untouched.
func (s *LedgerServiceImpl) MoveTx(ctx context.Context, dbTx pgx.Tx, params ports.MoveParams) (*ports.MoveResult, error) {
	if params.AmountCents <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if params.SourceWalletID == params.DestWalletID {
		return nil, apperror.Validation("source and destination wallets must differ")
	}

	source, dest, err := s.lockPair(ctx, dbTx, params.SourceWalletID, params.DestWalletID)
	if err != nil {
		return nil, err
	}

	if !source.IsActive() {
		if !params.LenientSource {
			return nil, apperror.ErrWalletInactive("source")
		}
		s.log.Warn().
			Str("wallet_id", source.ID.String()).
			Str("status", string(source.Status)).
			Msg("moving funds out of inactive source wallet")
	}
	if !dest.IsActive() {
		return nil, apperror.ErrWalletInactive("destination")
	}

	if source.BalanceCents < params.AmountCents {
		return nil, apperror.ErrInsufficientFunds()
	}

	now := time.Now().UTC()
	debit := &domain.Transaction{
		ID:               uuid.New(),
		WalletID:         source.ID,
		UserID:           source.UserID,
		EntryType:        domain.EntryTypeDebit,
		AmountCents:      params.AmountCents,
		Note:             params.Note,
		Category:         params.Category,
		VendorID:         params.VendorID,
		SenderID:         params.SenderID,
		RecipientID:      params.RecipientID,
		TreasuryWalletID: params.TreasuryWalletID,
		CreatedAt:        now,
	}
	credit := &domain.Transaction{
		ID:               uuid.New(),
		WalletID:         dest.ID,
		UserID:           dest.UserID,
		EntryType:        domain.EntryTypeCredit,
		AmountCents:      params.AmountCents,
		Note:             params.Note,
		Category:         params.Category,
		VendorID:         params.VendorID,
		SenderID:         params.SenderID,
		RecipientID:      params.RecipientID,
		TreasuryWalletID: params.TreasuryWalletID,
		CreatedAt:        now,
	}

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, source.ID, source.BalanceCents-params.AmountCents); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("debit source wallet: %w", err))
	}
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, dest.ID, dest.BalanceCents+params.AmountCents); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit destination wallet: %w", err))
	}
	if err := s.txRepo.Create(ctx, dbTx, debit); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create debit entry: %w", err))
	}
	if err := s.txRepo.Create(ctx, dbTx, credit); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create credit entry: %w", err))
	}

	return &ports.MoveResult{Debit: debit, Credit: credit}, nil
}

// lockPair acquires row locks on both wallets in ascending UUID order so
// concurrent movements over the same pair never deadlock.
func (s *LedgerServiceImpl) lockPair(ctx context.Context, dbTx pgx.Tx, sourceID, destID uuid.UUID) (source, dest *domain.Wallet, err error) {
	first, second := sourceID, destID
	if second.String() < first.String() {
		first, second = second, first
	}

	firstWallet, err := s.lockOne(ctx, dbTx, first, sourceID)
	if err != nil {
		return nil, nil, err
	}
	secondWallet, err := s.lockOne(ctx, dbTx, second, sourceID)
	if err != nil {
		return nil, nil, err
	}

	if first == sourceID {
		return firstWallet, secondWallet, nil
	}
	return secondWallet, firstWallet, nil
}

func (s *LedgerServiceImpl) lockOne(ctx context.Context, dbTx pgx.Tx, id, sourceID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		which := "destination"
		if id == sourceID {
			which = "source"
		}
		return nil, apperror.ErrWalletNotFound(which)
	}
	return wallet, nil
}

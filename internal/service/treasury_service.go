package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"payulot/internal/core/authz"
	"payulot/internal/core/domain"
	"payulot/internal/core/ports"
	"payulot/pkg/apperror"
	"payulot/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TreasuryServiceImpl implements ports.TreasuryService.
type TreasuryServiceImpl struct {
	ledger              ports.LedgerService
	walletRepo          ports.WalletRepository
	userRepo            ports.UserRepository
	txRepo              ports.TransactionRepository
	transactor          ports.DBTransactor
	audit               ports.AuditService
	allowInactiveSource bool
	log                 zerolog.Logger
}

// NewTreasuryService creates a new TreasuryServiceImpl.
func NewTreasuryService(
	ledger ports.LedgerService,
	walletRepo ports.WalletRepository,
	userRepo ports.UserRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	audit ports.AuditService,
	allowInactiveSource bool,
	log zerolog.Logger,
) *TreasuryServiceImpl {
	return &TreasuryServiceImpl{
		ledger:              ledger,
		walletRepo:          walletRepo,
		userRepo:            userRepo,
		txRepo:              txRepo,
		transactor:          transactor,
		audit:               audit,
		allowInactiveSource: allowInactiveSource,
		log:                 log,
	}
}

// AddFunds moves money from a treasury wallet into a cardholder wallet.
func (s *TreasuryServiceImpl) AddFunds(ctx context.Context, req ports.FundRequest) (*ports.MoveResult, error) {
	if !authz.Allowed(req.Actor, authz.CapFundWallets) {
		return nil, apperror.ErrForbidden()
	}
	// added_by must be the authenticated admin; the audit trail records
	// who actually moved the money.
	if req.AddedBy != req.Actor.ID {
		return nil, apperror.ErrActorMismatch()
	}

	amountCents, err := money.PositiveDollarsToCents(req.AmountDollars)
	if err != nil {
		return nil, apperror.ErrInvalidAmount()
	}

	wallet, err := s.resolveTargetWallet(ctx, req)
	if err != nil {
		return nil, err
	}

	recipient, err := s.userRepo.GetByID(ctx, wallet.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load recipient: %w", err))
	}
	if recipient == nil {
		return nil, apperror.ErrNotFound("recipient")
	}
	if !recipient.Role.IsCardholder() {
		return nil, apperror.ErrRoleNotEligible()
	}
	if recipient.Type == domain.TypeAssistance && mentionsBankTransfer(req.Note) {
		return nil, apperror.Validation("assistance recipients cannot receive bank transfer funding")
	}

	walletID := wallet.ID.String()
	auditID := s.audit.Begin(ctx, &domain.AdminAction{
		PerformedBy:  req.Actor.ID,
		Action:       domain.ActionAddFunds,
		ActionType:   "treasury",
		TargetUserID: &wallet.UserID,
		TargetID:     &walletID,
	})

	result, err := s.ledger.Move(ctx, ports.MoveParams{
		SourceWalletID:   req.TreasuryWalletID,
		DestWalletID:     wallet.ID,
		AmountCents:      amountCents,
		ActorID:          req.Actor.ID,
		Note:             req.Note,
		Category:         domain.CategoryTreasuryFunding,
		SenderID:         &req.AddedBy,
		RecipientID:      &wallet.UserID,
		TreasuryWalletID: &req.TreasuryWalletID,
		LenientSource:    s.allowInactiveSource,
	})
	if err != nil {
		s.audit.Failed(ctx, auditID, err)
		return nil, err
	}
	s.audit.Completed(ctx, auditID)

	s.log.Info().
		Str("admin_id", req.Actor.ID.String()).
		Str("wallet_id", wallet.ID.String()).
		Int64("amount_cents", amountCents).
		Msg("treasury funding applied")

	return result, nil
}

// Adjust writes a single signed treasury entry outside the paired-movement
// rule. The treasury balance may never go negative.
func (s *TreasuryServiceImpl) Adjust(ctx context.Context, req ports.AdjustRequest) (*domain.Transaction, error) {
	if !authz.Allowed(req.Actor, authz.CapAdjustTreasury) {
		return nil, apperror.ErrForbidden()
	}

	amountCents, err := money.DollarsToCents(req.AmountDollars)
	if err != nil || amountCents == 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	treasuryID := req.TreasuryWalletID.String()
	auditID := s.audit.Begin(ctx, &domain.AdminAction{
		PerformedBy: req.Actor.ID,
		Action:      domain.ActionTreasuryAdjust,
		ActionType:  "treasury",
		TargetID:    &treasuryID,
	})

	entry, err := s.adjustTx(ctx, req, amountCents)
	if err != nil {
		s.audit.Failed(ctx, auditID, err)
		return nil, err
	}
	s.audit.Completed(ctx, auditID)

	s.log.Info().
		Str("admin_id", req.Actor.ID.String()).
		Str("entry_id", entry.ID.String()).
		Int64("amount_cents", amountCents).
		Msg("treasury adjustment applied")

	return entry, nil
}

func (s *TreasuryServiceImpl) adjustTx(ctx context.Context, req ports.AdjustRequest, amountCents int64) (*domain.Transaction, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	treasury, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, req.TreasuryWalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock treasury wallet: %w", err))
	}
	if treasury == nil {
		return nil, apperror.ErrWalletNotFound("treasury")
	}
	if !treasury.IsTreasury {
		return nil, apperror.Validation("wallet is not a treasury wallet")
	}

	newBalance := treasury.BalanceCents + amountCents
	if newBalance < 0 {
		return nil, apperror.ErrInsufficientFunds()
	}

	entryType := domain.EntryTypeCredit
	entryAmount := amountCents
	if amountCents < 0 {
		entryType = domain.EntryTypeDebit
		entryAmount = -amountCents
	}

	entry := &domain.Transaction{
		ID:               uuid.New(),
		WalletID:         treasury.ID,
		UserID:           treasury.UserID,
		EntryType:        entryType,
		AmountCents:      entryAmount,
		Note:             req.Note,
		Category:         domain.CategoryTreasuryAdjustment,
		SenderID:         &req.Actor.ID,
		TreasuryWalletID: &treasury.ID,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, treasury.ID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update treasury balance: %w", err))
	}
	if err := s.txRepo.Create(ctx, dbTx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create adjustment entry: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return entry, nil
}

func (s *TreasuryServiceImpl) resolveTargetWallet(ctx context.Context, req ports.FundRequest) (*domain.Wallet, error) {
	var (
		wallet *domain.Wallet
		err    error
	)
	switch {
	case req.WalletID != uuid.Nil:
		wallet, err = s.walletRepo.GetByID(ctx, req.WalletID)
	case req.UserID != uuid.Nil:
		wallet, err = s.walletRepo.GetByUserID(ctx, req.UserID)
	default:
		return nil, apperror.Validation("wallet_id or user_id is required")
	}
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve target wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound("destination")
	}
	return wallet, nil
}

func mentionsBankTransfer(note string) bool {
	return strings.Contains(strings.ToLower(note), "bank transfer")
}

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

// PayoutServiceImpl implements ports.PayoutService. State transitions go
// through conditional UPDATEs in the transfer repository; a transition that
// matches zero rows surfaces as a 409 without retrying.
type PayoutServiceImpl struct {
	transferRepo ports.TransferRepository
	bankRepo     ports.BankAccountRepository
	walletRepo   ports.WalletRepository
	ledger       ports.LedgerService
	transactor   ports.DBTransactor
	audit        ports.AuditService
	log          zerolog.Logger
}

// NewPayoutService creates a new PayoutServiceImpl.
func NewPayoutService(
	transferRepo ports.TransferRepository,
	bankRepo ports.BankAccountRepository,
	walletRepo ports.WalletRepository,
	ledger ports.LedgerService,
	transactor ports.DBTransactor,
	audit ports.AuditService,
	log zerolog.Logger,
) *PayoutServiceImpl {
	return &PayoutServiceImpl{
		transferRepo: transferRepo,
		bankRepo:     bankRepo,
		walletRepo:   walletRepo,
		ledger:       ledger,
		transactor:   transactor,
		audit:        audit,
		log:          log,
	}
}

// Request creates a pending transfer against a bank account the caller owns.
// The balance check here is advisory; funds only move at completion.
func (s *PayoutServiceImpl) Request(ctx context.Context, req ports.PayoutRequest) (*domain.Transfer, error) {
	if !authz.Allowed(req.Actor, authz.CapRequestPayout) {
		return nil, apperror.ErrForbidden()
	}

	amountCents, err := money.PositiveDollarsToCents(req.AmountDollars)
	if err != nil {
		return nil, apperror.ErrInvalidAmount()
	}

	account, err := s.bankRepo.GetByID(ctx, req.BankAccountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find bank account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrBankAccountNotFound()
	}
	if account.UserID != req.Actor.ID {
		return nil, apperror.ErrActorMismatch()
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, req.Actor.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound("source")
	}
	if wallet.BalanceCents < amountCents {
		return nil, apperror.ErrInsufficientFunds()
	}

	transfer := &domain.Transfer{
		ID:            uuid.New(),
		UserID:        req.Actor.ID,
		BankAccountID: account.ID,
		AmountCents:   amountCents,
		Status:        domain.TransferStatusPending,
		RequestedAt:   time.Now().UTC(),
	}
	if err := s.transferRepo.Create(ctx, transfer); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transfer: %w", err))
	}

	s.log.Info().
		Str("transfer_id", transfer.ID.String()).
		Str("user_id", req.Actor.ID.String()).
		Int64("amount_cents", amountCents).
		Msg("payout requested")

	return transfer, nil
}

// List returns transfers matching the filters plus the unpaged total.
func (s *PayoutServiceImpl) List(ctx context.Context, actor domain.Actor, params ports.TransferListParams) ([]domain.Transfer, int64, error) {
	if !authz.Allowed(actor, authz.CapProcessPayouts) {
		return nil, 0, apperror.ErrForbidden()
	}
	transfers, total, err := s.transferRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transfers: %w", err))
	}
	return transfers, total, nil
}

// Claim moves a pending transfer to claimed. Re-claiming a transfer already
// claimed by the same actor succeeds without changes.
func (s *PayoutServiceImpl) Claim(ctx context.Context, actor domain.Actor, transferID uuid.UUID) (*domain.Transfer, error) {
	if !authz.Allowed(actor, authz.CapProcessPayouts) {
		return nil, apperror.ErrForbidden()
	}

	auditID := s.audit.Begin(ctx, transferAction(actor, domain.ActionTransferClaim, transferID))

	ok, err := s.transferRepo.Claim(ctx, transferID, actor.ID)
	if err != nil {
		s.audit.Failed(ctx, auditID, err)
		return nil, apperror.InternalError(fmt.Errorf("claim transfer: %w", err))
	}
	if !ok {
		notAvail := s.unavailable(ctx, transferID)
		s.audit.Failed(ctx, auditID, notAvail)
		return nil, notAvail
	}
	s.audit.Completed(ctx, auditID)

	s.log.Info().
		Str("transfer_id", transferID.String()).
		Str("claimed_by", actor.ID.String()).
		Msg("transfer claimed")

	return s.reload(ctx, transferID)
}

// Release moves a transfer the actor claimed back to pending.
func (s *PayoutServiceImpl) Release(ctx context.Context, actor domain.Actor, transferID uuid.UUID) (*domain.Transfer, error) {
	if !authz.Allowed(actor, authz.CapProcessPayouts) {
		return nil, apperror.ErrForbidden()
	}

	auditID := s.audit.Begin(ctx, transferAction(actor, domain.ActionTransferRelease, transferID))

	ok, err := s.transferRepo.Release(ctx, transferID, actor.ID)
	if err != nil {
		s.audit.Failed(ctx, auditID, err)
		return nil, apperror.InternalError(fmt.Errorf("release transfer: %w", err))
	}
	if !ok {
		notAvail := s.unavailable(ctx, transferID)
		s.audit.Failed(ctx, auditID, notAvail)
		return nil, notAvail
	}
	s.audit.Completed(ctx, auditID)

	s.log.Info().
		Str("transfer_id", transferID.String()).
		Str("released_by", actor.ID.String()).
		Msg("transfer released")

	return s.reload(ctx, transferID)
}

// Complete finishes a transfer the actor claimed: the conditional status
// UPDATE and the ledger movement out of the cardholder wallet commit in the
// same database transaction, or neither does.
func (s *PayoutServiceImpl) Complete(ctx context.Context, actor domain.Actor, transferID uuid.UUID, bankReference string) (*domain.Transfer, error) {
	if !authz.Allowed(actor, authz.CapProcessPayouts) {
		return nil, apperror.ErrForbidden()
	}
	bankReference = strings.TrimSpace(bankReference)
	if len(bankReference) < domain.MinBankReferenceLen {
		return nil, apperror.ErrBankReferenceRequired()
	}

	transfer, err := s.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find transfer: %w", err))
	}
	if transfer == nil {
		return nil, apperror.ErrTransferNotFound()
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, transfer.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find cardholder wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound("source")
	}

	treasury, err := s.walletRepo.GetTreasury(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find treasury wallet: %w", err))
	}
	if treasury == nil {
		return nil, apperror.ErrWalletNotFound("treasury")
	}

	auditID := s.audit.Begin(ctx, transferAction(actor, domain.ActionTransferComplete, transferID))

	completed, err := s.completeTx(ctx, actor, transfer, wallet, treasury, bankReference)
	if err != nil {
		s.audit.Failed(ctx, auditID, err)
		return nil, err
	}
	s.audit.Completed(ctx, auditID)

	s.log.Info().
		Str("transfer_id", transferID.String()).
		Str("completed_by", actor.ID.String()).
		Str("bank_reference", bankReference).
		Int64("amount_cents", transfer.AmountCents).
		Msg("transfer completed")

	return completed, nil
}

func (s *PayoutServiceImpl) completeTx(
	ctx context.Context,
	actor domain.Actor,
	transfer *domain.Transfer,
	wallet, treasury *domain.Wallet,
	bankReference string,
) (*domain.Transfer, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	ok, err := s.transferRepo.Complete(ctx, dbTx, transfer.ID, actor.ID, bankReference)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("complete transfer: %w", err))
	}
	if !ok {
		return nil, apperror.ErrTransferNotAvailable()
	}

	// Insufficient funds here rolls back the status change too, leaving the
	// row claimed.
	if _, err := s.ledger.MoveTx(ctx, dbTx, ports.MoveParams{
		SourceWalletID:   wallet.ID,
		DestWalletID:     treasury.ID,
		AmountCents:      transfer.AmountCents,
		ActorID:          actor.ID,
		Note:             "Bank transfer " + bankReference,
		Category:         domain.CategoryBankTransfer,
		SenderID:         &transfer.UserID,
		TreasuryWalletID: &treasury.ID,
	}); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	return s.reload(ctx, transfer.ID)
}

// Reject terminally rejects a pending transfer, or a claimed one held by the
// actor.
func (s *PayoutServiceImpl) Reject(ctx context.Context, actor domain.Actor, transferID uuid.UUID, reason string) (*domain.Transfer, error) {
	if !authz.Allowed(actor, authz.CapProcessPayouts) {
		return nil, apperror.ErrForbidden()
	}

	auditID := s.audit.Begin(ctx, transferAction(actor, domain.ActionTransferReject, transferID))

	ok, err := s.transferRepo.Reject(ctx, transferID, actor.ID, reason)
	if err != nil {
		s.audit.Failed(ctx, auditID, err)
		return nil, apperror.InternalError(fmt.Errorf("reject transfer: %w", err))
	}
	if !ok {
		notAvail := s.unavailable(ctx, transferID)
		s.audit.Failed(ctx, auditID, notAvail)
		return nil, notAvail
	}
	s.audit.Completed(ctx, auditID)

	s.log.Info().
		Str("transfer_id", transferID.String()).
		Str("rejected_by", actor.ID.String()).
		Str("reason", reason).
		Msg("transfer rejected")

	return s.reload(ctx, transferID)
}

// unavailable distinguishes a missing transfer from one in the wrong state
// or held by someone else.
func (s *PayoutServiceImpl) unavailable(ctx context.Context, transferID uuid.UUID) error {
	transfer, err := s.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("find transfer: %w", err))
	}
	if transfer == nil {
		return apperror.ErrTransferNotFound()
	}
	return apperror.ErrTransferNotAvailable()
}

func (s *PayoutServiceImpl) reload(ctx context.Context, transferID uuid.UUID) (*domain.Transfer, error) {
	transfer, err := s.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("reload transfer: %w", err))
	}
	if transfer == nil {
		return nil, apperror.ErrTransferNotFound()
	}
	return transfer, nil
}

func transferAction(actor domain.Actor, action string, transferID uuid.UUID) *domain.AdminAction {
	targetID := transferID.String()
	return &domain.AdminAction{
		PerformedBy: actor.ID,
		Action:      action,
		ActionType:  "transfer",
		TargetID:    &targetID,
	}
}

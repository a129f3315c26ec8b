package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"payulot/internal/core/authz"
	"payulot/internal/core/domain"
	"payulot/internal/core/ports"
	"payulot/pkg/apperror"
	"payulot/pkg/money"

	"github.com/rs/zerolog"
)

const idempotencyTTL = 24 * time.Hour

// ChargeServiceImpl implements ports.ChargeService.
type ChargeServiceImpl struct {
	ledger       ports.LedgerService
	walletRepo   ports.WalletRepository
	passportRepo ports.PassportRepository
	idempRepo    ports.IdempotencyRepository
	idempCache   ports.IdempotencyCache
	transactor   ports.DBTransactor
	log          zerolog.Logger
}

// NewChargeService creates a new ChargeServiceImpl.
func NewChargeService(
	ledger ports.LedgerService,
	walletRepo ports.WalletRepository,
	passportRepo ports.PassportRepository,
	idempRepo ports.IdempotencyRepository,
	idempCache ports.IdempotencyCache,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *ChargeServiceImpl {
	return &ChargeServiceImpl{
		ledger:       ledger,
		walletRepo:   walletRepo,
		passportRepo: passportRepo,
		idempRepo:    idempRepo,
		idempCache:   idempCache,
		transactor:   transactor,
		log:          log,
	}
}

// Charge debits the passport holder's wallet and credits the vendor's
// merchant wallet in one unit of work.
func (s *ChargeServiceImpl) Charge(ctx context.Context, req ports.ChargeRequest) (*ports.ChargeResult, error) {
	if !authz.Allowed(req.Actor, authz.CapChargePassport) {
		return nil, apperror.ErrForbidden()
	}

	amountCents, err := money.PositiveDollarsToCents(req.AmountDollars)
	if err != nil {
		return nil, apperror.ErrInvalidAmount()
	}

	var idempKey string
	if req.IdempotencyKey != nil && *req.IdempotencyKey != "" {
		idempKey = domain.BuildChargeIdempotencyKey(req.Actor.ID, *req.IdempotencyKey)

		// Layer 1: Redis idempotency check
		cached, err := s.idempCache.Get(ctx, idempKey)
		if err != nil {
			s.log.Warn().Err(err).Str("key", idempKey).Msg("redis idempotency check failed, falling through to DB")
		}
		if cached != nil {
			return s.unmarshalCachedResult(cached)
		}

		// Layer 2: DB idempotency check
		idempLog, err := s.idempRepo.Get(ctx, idempKey)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("db idempotency check: %w", err))
		}
		if idempLog != nil {
			return s.unmarshalCachedResult(idempLog.ResponseJSON)
		}
	}

	// Exact, case-sensitive passport lookup.
	passport, err := s.passportRepo.GetByPassportID(ctx, req.PassportID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find passport: %w", err))
	}
	if passport == nil || !passport.Active {
		return nil, apperror.ErrPassportNotFound()
	}

	vendorWallet, err := s.walletRepo.GetMerchantByUserID(ctx, req.Actor.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find vendor wallet: %w", err))
	}
	if vendorWallet == nil {
		return nil, apperror.ErrVendorProfileNotFound()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	moveResult, err := s.ledger.MoveTx(ctx, dbTx, ports.MoveParams{
		SourceWalletID: passport.WalletID,
		DestWalletID:   vendorWallet.ID,
		AmountCents:    amountCents,
		ActorID:        req.Actor.ID,
		Note:           req.Note,
		Category:       domain.CategoryVendorCharge,
		VendorID:       &req.Actor.ID,
		SenderID:       &passport.UserID,
		RecipientID:    &req.Actor.ID,
	})
	if err != nil {
		return nil, err
	}

	result := &ports.ChargeResult{
		Status:      "success",
		AmountCents: amountCents,
		VendorID:    req.Actor.ID,
		BuyerID:     passport.UserID,
		Txns: ports.ChargePair{
			DebitID:  moveResult.Debit.ID,
			CreditID: moveResult.Credit.ID,
		},
	}

	var respJSON []byte
	if idempKey != "" {
		respJSON, err = json.Marshal(result)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("marshal response: %w", err))
		}
		idempLogEntry := &domain.IdempotencyLog{
			Key:          idempKey,
			DebitID:      moveResult.Debit.ID,
			ResponseJSON: respJSON,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.idempRepo.Create(ctx, dbTx, idempLogEntry); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("save idempotency log: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// Post-process: cache in Redis (best-effort)
	if idempKey != "" {
		if err := s.idempCache.Set(ctx, idempKey, respJSON, idempotencyTTL); err != nil {
			s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotency in redis")
		}
	}

	s.log.Info().
		Str("vendor_id", req.Actor.ID.String()).
		Str("buyer_id", passport.UserID.String()).
		Int64("amount_cents", amountCents).
		Msg("passport charge processed")

	return result, nil
}

// unmarshalCachedResult deserializes a cached charge result.
func (s *ChargeServiceImpl) unmarshalCachedResult(data []byte) (*ports.ChargeResult, error) {
	result := &ports.ChargeResult{}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached charge: %w", err))
	}
	return result, nil
}

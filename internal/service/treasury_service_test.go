package service

import (
	"context"
	"errors"
	"testing"

	"payulot/internal/core/domain"
	"payulot/internal/core/ports"
	"payulot/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type treasuryTestDeps struct {
	svc        *TreasuryServiceImpl
	ledger     *mocks.MockLedgerService
	walletRepo *mocks.MockWalletRepository
	userRepo   *mocks.MockUserRepository
	txRepo     *mocks.MockTransactionRepository
	transactor *mocks.MockDBTransactor
	audit      *mocks.MockAuditService
	ctrl       *gomock.Controller
}

func setupTreasuryService(t *testing.T, allowInactiveSource bool) *treasuryTestDeps {
	ctrl := gomock.NewController(t)
	d := &treasuryTestDeps{
		ledger:     mocks.NewMockLedgerService(ctrl),
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		userRepo:   mocks.NewMockUserRepository(ctrl),
		txRepo:     mocks.NewMockTransactionRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		audit:      mocks.NewMockAuditService(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewTreasuryService(
		d.ledger, d.walletRepo, d.userRepo, d.txRepo,
		d.transactor, d.audit, allowInactiveSource, zerolog.Nop(),
	)
	return d
}

var errMoveFailed = errors.New("move failed")

func treasuryActor() domain.Actor {
	return domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin, Type: domain.TypeTreasury}
}

func accountantActor() domain.Actor {
	return domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin, Type: domain.TypeAccountant}
}

// ==================== AddFunds Tests ====================

func TestTreasuryService_AddFunds_Success(t *testing.T) {
	d := setupTreasuryService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	actor := accountantActor()
	treasuryID := uuid.New()
	walletID := uuid.New()
	userID := uuid.New()
	auditID := uuid.New()

	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(&domain.Wallet{
		ID: walletID, UserID: userID, Status: domain.WalletStatusActive,
	}, nil)
	d.userRepo.EXPECT().GetByID(ctx, userID).Return(&domain.User{
		ID: userID, Role: domain.RoleCitizen, Type: domain.TypeStandard,
	}, nil)
	d.audit.EXPECT().Begin(ctx, gomock.Any()).Return(auditID)
	d.ledger.EXPECT().Move(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p ports.MoveParams) (*ports.MoveResult, error) {
			assert.Equal(t, treasuryID, p.SourceWalletID)
			assert.Equal(t, walletID, p.DestWalletID)
			assert.Equal(t, int64(2550), p.AmountCents)
			assert.Equal(t, domain.CategoryTreasuryFunding, p.Category)
			assert.False(t, p.LenientSource)
			return &ports.MoveResult{
				Debit:  &domain.Transaction{ID: uuid.New(), EntryType: domain.EntryTypeDebit, AmountCents: 2550},
				Credit: &domain.Transaction{ID: uuid.New(), EntryType: domain.EntryTypeCredit, AmountCents: 2550},
			}, nil
		})
	d.audit.EXPECT().Completed(ctx, auditID)

	result, err := d.svc.AddFunds(ctx, ports.FundRequest{
		Actor:            actor,
		TreasuryWalletID: treasuryID,
		WalletID:         walletID,
		AmountDollars:    25.50,
		Note:             "monthly benefit",
		AddedBy:          actor.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2550), result.Credit.AmountCents)
}

func TestTreasuryService_AddFunds_ResolvesWalletByUser(t *testing.T) {
	d := setupTreasuryService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	actor := accountantActor()
	treasuryID := uuid.New()
	walletID := uuid.New()
	userID := uuid.New()

	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(&domain.Wallet{
		ID: walletID, UserID: userID, Status: domain.WalletStatusActive,
	}, nil)
	d.userRepo.EXPECT().GetByID(ctx, userID).Return(&domain.User{
		ID: userID, Role: domain.RoleStudent, Type: domain.TypeStandard,
	}, nil)
	d.audit.EXPECT().Begin(ctx, gomock.Any()).Return(uuid.New())
	d.ledger.EXPECT().Move(ctx, gomock.Any()).Return(&ports.MoveResult{
		Debit:  &domain.Transaction{ID: uuid.New()},
		Credit: &domain.Transaction{ID: uuid.New()},
	}, nil)
	d.audit.EXPECT().Completed(ctx, gomock.Any())

	_, err := d.svc.AddFunds(ctx, ports.FundRequest{
		Actor:            actor,
		TreasuryWalletID: treasuryID,
		UserID:           userID,
		AmountDollars:    10,
		AddedBy:          actor.ID,
	})
	require.NoError(t, err)
}

func TestTreasuryService_AddFunds_Forbidden(t *testing.T) {
	d := setupTreasuryService(t, false)
	defer d.ctrl.Finish()

	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleVendor}
	result, err := d.svc.AddFunds(context.Background(), ports.FundRequest{
		Actor:            actor,
		TreasuryWalletID: uuid.New(),
		WalletID:         uuid.New(),
		AmountDollars:    10,
	})
	assert.Nil(t, result)
	assertAppError(t, err, "AUTH_002")
}

func TestTreasuryService_AddFunds_InvalidAmount(t *testing.T) {
	d := setupTreasuryService(t, false)
	defer d.ctrl.Finish()

	actor := accountantActor()
	for _, amount := range []float64{0, -5, 0.001} {
		result, err := d.svc.AddFunds(context.Background(), ports.FundRequest{
			Actor:            actor,
			TreasuryWalletID: uuid.New(),
			WalletID:         uuid.New(),
			AmountDollars:    amount,
			AddedBy:          actor.ID,
		})
		assert.Nil(t, result)
		assertAppError(t, err, "LGR_002")
	}
}

func TestTreasuryService_AddFunds_AddedByMismatch(t *testing.T) {
	d := setupTreasuryService(t, false)
	defer d.ctrl.Finish()

	// A funding request whose added_by names someone other than the
	// authenticated admin must be refused before any lookup or movement.
	result, err := d.svc.AddFunds(context.Background(), ports.FundRequest{
		Actor:            accountantActor(),
		TreasuryWalletID: uuid.New(),
		WalletID:         uuid.New(),
		AmountDollars:    10,
		AddedBy:          uuid.New(),
	})
	assert.Nil(t, result)
	assertAppError(t, err, "AUTH_003")
}

func TestTreasuryService_AddFunds_RoundsHalfUp(t *testing.T) {
	d := setupTreasuryService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	actor := accountantActor()
	walletID := uuid.New()
	userID := uuid.New()

	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(&domain.Wallet{
		ID: walletID, UserID: userID, Status: domain.WalletStatusActive,
	}, nil)
	d.userRepo.EXPECT().GetByID(ctx, userID).Return(&domain.User{
		ID: userID, Role: domain.RoleSenior, Type: domain.TypeStandard,
	}, nil)
	d.audit.EXPECT().Begin(ctx, gomock.Any()).Return(uuid.New())
	d.ledger.EXPECT().Move(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p ports.MoveParams) (*ports.MoveResult, error) {
			assert.Equal(t, int64(1006), p.AmountCents) // 10.055 * 100 rounds away from zero
			return &ports.MoveResult{
				Debit:  &domain.Transaction{ID: uuid.New()},
				Credit: &domain.Transaction{ID: uuid.New()},
			}, nil
		})
	d.audit.EXPECT().Completed(ctx, gomock.Any())

	_, err := d.svc.AddFunds(ctx, ports.FundRequest{
		Actor:            actor,
		TreasuryWalletID: uuid.New(),
		WalletID:         walletID,
		AmountDollars:    10.055,
		AddedBy:          actor.ID,
	})
	require.NoError(t, err)
}

func TestTreasuryService_AddFunds_VendorNotEligible(t *testing.T) {
	d := setupTreasuryService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	actor := accountantActor()
	walletID := uuid.New()
	userID := uuid.New()

	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(&domain.Wallet{
		ID: walletID, UserID: userID, Status: domain.WalletStatusActive,
	}, nil)
	d.userRepo.EXPECT().GetByID(ctx, userID).Return(&domain.User{
		ID: userID, Role: domain.RoleVendor,
	}, nil)

	result, err := d.svc.AddFunds(ctx, ports.FundRequest{
		Actor:            actor,
		TreasuryWalletID: uuid.New(),
		WalletID:         walletID,
		AmountDollars:    10,
		AddedBy:          actor.ID,
	})
	assert.Nil(t, result)
	assertAppError(t, err, "LGR_005")
}

func TestTreasuryService_AddFunds_AssistanceBankTransferBlocked(t *testing.T) {
	d := setupTreasuryService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	actor := accountantActor()
	walletID := uuid.New()
	userID := uuid.New()

	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(&domain.Wallet{
		ID: walletID, UserID: userID, Status: domain.WalletStatusActive,
	}, nil)
	d.userRepo.EXPECT().GetByID(ctx, userID).Return(&domain.User{
		ID: userID, Role: domain.RoleCitizen, Type: domain.TypeAssistance,
	}, nil)

	result, err := d.svc.AddFunds(ctx, ports.FundRequest{
		Actor:            actor,
		TreasuryWalletID: uuid.New(),
		WalletID:         walletID,
		AmountDollars:    10,
		Note:             "Bank Transfer reimbursement",
		AddedBy:          actor.ID,
	})
	assert.Nil(t, result)
	assertAppError(t, err, "VAL_001")
}

func TestTreasuryService_AddFunds_WalletNotFound(t *testing.T) {
	d := setupTreasuryService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	actor := accountantActor()
	walletID := uuid.New()
	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(nil, nil)

	result, err := d.svc.AddFunds(ctx, ports.FundRequest{
		Actor:            actor,
		TreasuryWalletID: uuid.New(),
		WalletID:         walletID,
		AmountDollars:    10,
		AddedBy:          actor.ID,
	})
	assert.Nil(t, result)
	assertAppError(t, err, "LGR_003")
}

func TestTreasuryService_AddFunds_LedgerFailureAudited(t *testing.T) {
	d := setupTreasuryService(t, true)
	defer d.ctrl.Finish()

	ctx := context.Background()
	actor := treasuryActor()
	walletID := uuid.New()
	userID := uuid.New()
	auditID := uuid.New()

	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(&domain.Wallet{
		ID: walletID, UserID: userID, Status: domain.WalletStatusActive,
	}, nil)
	d.userRepo.EXPECT().GetByID(ctx, userID).Return(&domain.User{
		ID: userID, Role: domain.RoleCitizen, Type: domain.TypeStandard,
	}, nil)
	d.audit.EXPECT().Begin(ctx, gomock.Any()).Return(auditID)
	d.ledger.EXPECT().Move(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p ports.MoveParams) (*ports.MoveResult, error) {
			assert.True(t, p.LenientSource)
			return nil, errMoveFailed
		})
	d.audit.EXPECT().Failed(ctx, auditID, errMoveFailed)

	result, err := d.svc.AddFunds(ctx, ports.FundRequest{
		Actor:            actor,
		TreasuryWalletID: uuid.New(),
		WalletID:         walletID,
		AmountDollars:    10,
		AddedBy:          actor.ID,
	})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, errMoveFailed)
}

// ==================== Adjust Tests ====================

func TestTreasuryService_Adjust_CreditSuccess(t *testing.T) {
	d := setupTreasuryService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	actor := treasuryActor()
	treasuryID := uuid.New()
	treasuryUser := uuid.New()
	auditID := uuid.New()
	tx := &mockTx{}

	d.audit.EXPECT().Begin(ctx, gomock.Any()).Return(auditID)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, treasuryID).Return(&domain.Wallet{
		ID: treasuryID, UserID: treasuryUser, BalanceCents: 100000,
		Status: domain.WalletStatusActive, IsTreasury: true,
	}, nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, treasuryID, int64(150000)).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.audit.EXPECT().Completed(ctx, auditID)

	entry, err := d.svc.Adjust(ctx, ports.AdjustRequest{
		Actor:            actor,
		TreasuryWalletID: treasuryID,
		AmountDollars:    500,
		Note:             "budget allocation",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EntryTypeCredit, entry.EntryType)
	assert.Equal(t, int64(50000), entry.AmountCents)
	assert.Equal(t, domain.CategoryTreasuryAdjustment, entry.Category)
}

func TestTreasuryService_Adjust_DebitSuccess(t *testing.T) {
	d := setupTreasuryService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	actor := treasuryActor()
	treasuryID := uuid.New()
	auditID := uuid.New()
	tx := &mockTx{}

	d.audit.EXPECT().Begin(ctx, gomock.Any()).Return(auditID)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, treasuryID).Return(&domain.Wallet{
		ID: treasuryID, UserID: uuid.New(), BalanceCents: 100000,
		Status: domain.WalletStatusActive, IsTreasury: true,
	}, nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, treasuryID, int64(75000)).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.audit.EXPECT().Completed(ctx, auditID)

	entry, err := d.svc.Adjust(ctx, ports.AdjustRequest{
		Actor:            actor,
		TreasuryWalletID: treasuryID,
		AmountDollars:    -250,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EntryTypeDebit, entry.EntryType)
	assert.Equal(t, int64(25000), entry.AmountCents)
}

func TestTreasuryService_Adjust_NegativeBalanceRejected(t *testing.T) {
	d := setupTreasuryService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	actor := treasuryActor()
	treasuryID := uuid.New()
	auditID := uuid.New()
	tx := &mockTx{}

	d.audit.EXPECT().Begin(ctx, gomock.Any()).Return(auditID)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, treasuryID).Return(&domain.Wallet{
		ID: treasuryID, UserID: uuid.New(), BalanceCents: 1000,
		Status: domain.WalletStatusActive, IsTreasury: true,
	}, nil)
	d.audit.EXPECT().Failed(ctx, auditID, gomock.Any())

	entry, err := d.svc.Adjust(ctx, ports.AdjustRequest{
		Actor:            actor,
		TreasuryWalletID: treasuryID,
		AmountDollars:    -10.01,
	})
	assert.Nil(t, entry)
	assertAppError(t, err, "LGR_001")
}

func TestTreasuryService_Adjust_AccountantForbidden(t *testing.T) {
	d := setupTreasuryService(t, false)
	defer d.ctrl.Finish()

	entry, err := d.svc.Adjust(context.Background(), ports.AdjustRequest{
		Actor:            accountantActor(),
		TreasuryWalletID: uuid.New(),
		AmountDollars:    100,
	})
	assert.Nil(t, entry)
	assertAppError(t, err, "AUTH_002")
}

func TestTreasuryService_Adjust_ZeroAmount(t *testing.T) {
	d := setupTreasuryService(t, false)
	defer d.ctrl.Finish()

	entry, err := d.svc.Adjust(context.Background(), ports.AdjustRequest{
		Actor:            treasuryActor(),
		TreasuryWalletID: uuid.New(),
		AmountDollars:    0,
	})
	assert.Nil(t, entry)
	assertAppError(t, err, "LGR_002")
}

func TestTreasuryService_Adjust_NonTreasuryWallet(t *testing.T) {
	d := setupTreasuryService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	treasuryID := uuid.New()
	auditID := uuid.New()
	tx := &mockTx{}

	d.audit.EXPECT().Begin(ctx, gomock.Any()).Return(auditID)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, treasuryID).Return(&domain.Wallet{
		ID: treasuryID, UserID: uuid.New(), BalanceCents: 1000,
		Status: domain.WalletStatusActive, IsTreasury: false,
	}, nil)
	d.audit.EXPECT().Failed(ctx, auditID, gomock.Any())

	entry, err := d.svc.Adjust(ctx, ports.AdjustRequest{
		Actor:            treasuryActor(),
		TreasuryWalletID: treasuryID,
		AmountDollars:    10,
	})
	assert.Nil(t, entry)
	assertAppError(t, err, "VAL_001")
}

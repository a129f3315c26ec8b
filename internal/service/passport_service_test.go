package service

import (
	"context"
	"strings"
	"testing"

	"payulot/internal/core/domain"
	"payulot/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type passportTestDeps struct {
	svc          *PassportServiceImpl
	passportRepo *mocks.MockPassportRepository
	walletRepo   *mocks.MockWalletRepository
	userRepo     *mocks.MockUserRepository
	hashSvc      *mocks.MockHashService
	audit        *mocks.MockAuditService
	ctrl         *gomock.Controller
}

func setupPassportService(t *testing.T) *passportTestDeps {
	ctrl := gomock.NewController(t)
	d := &passportTestDeps{
		passportRepo: mocks.NewMockPassportRepository(ctrl),
		walletRepo:   mocks.NewMockWalletRepository(ctrl),
		userRepo:     mocks.NewMockUserRepository(ctrl),
		hashSvc:      mocks.NewMockHashService(ctrl),
		audit:        mocks.NewMockAuditService(ctrl),
		ctrl:         ctrl,
	}
	d.svc = NewPassportService(
		d.passportRepo, d.walletRepo, d.userRepo, d.hashSvc, d.audit, zerolog.Nop(),
	)
	return d
}

func TestPassportService_Issue_Success(t *testing.T) {
	d := setupPassportService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	actor := treasuryActor()
	userID := uuid.New()
	walletID := uuid.New()
	auditID := uuid.New()

	d.userRepo.EXPECT().GetByID(ctx, userID).Return(&domain.User{
		ID: userID, Role: domain.RoleCitizen, Type: domain.TypeStandard,
	}, nil)
	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(&domain.Wallet{
		ID: walletID, UserID: userID, Status: domain.WalletStatusActive,
	}, nil)
	d.hashSvc.EXPECT().Hash(gomock.Any()).Return("$argon2id$hash", nil)
	d.audit.EXPECT().Begin(ctx, gomock.Any()).Return(auditID)
	d.passportRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p *domain.Passport) error {
			assert.True(t, strings.HasPrefix(p.PassportID, "BOOP-"))
			assert.Equal(t, "$argon2id$hash", p.PIDTokenHash)
			assert.Equal(t, userID, p.UserID)
			assert.Equal(t, walletID, p.WalletID)
			assert.True(t, p.Active)
			return nil
		})
	d.audit.EXPECT().Completed(ctx, auditID)

	issued, err := d.svc.Issue(ctx, actor, userID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(issued.PassportID, "BOOP-"))
	assert.Len(t, issued.PIDToken, 64) // 32 bytes hex-encoded
}

func TestPassportService_Issue_VendorForbidden(t *testing.T) {
	d := setupPassportService(t)
	defer d.ctrl.Finish()

	issued, err := d.svc.Issue(context.Background(), vendorActor(), uuid.New())
	assert.Nil(t, issued)
	assertAppError(t, err, "AUTH_002")
}

func TestPassportService_Issue_UserNotFound(t *testing.T) {
	d := setupPassportService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	d.userRepo.EXPECT().GetByID(ctx, userID).Return(nil, nil)

	issued, err := d.svc.Issue(ctx, treasuryActor(), userID)
	assert.Nil(t, issued)
	assertAppError(t, err, "GEN_001")
}

func TestPassportService_Issue_VendorUserNotEligible(t *testing.T) {
	d := setupPassportService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	d.userRepo.EXPECT().GetByID(ctx, userID).Return(&domain.User{
		ID: userID, Role: domain.RoleVendor,
	}, nil)

	issued, err := d.svc.Issue(ctx, treasuryActor(), userID)
	assert.Nil(t, issued)
	assertAppError(t, err, "LGR_005")
}

func TestPassportService_Issue_TokensDiffer(t *testing.T) {
	d := setupPassportService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	actor := treasuryActor()
	seen := map[string]bool{}

	for i := 0; i < 3; i++ {
		userID := uuid.New()
		d.userRepo.EXPECT().GetByID(ctx, userID).Return(&domain.User{
			ID: userID, Role: domain.RoleStudent, Type: domain.TypeStandard,
		}, nil)
		d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(&domain.Wallet{
			ID: uuid.New(), UserID: userID, Status: domain.WalletStatusActive,
		}, nil)
		d.hashSvc.EXPECT().Hash(gomock.Any()).Return("h", nil)
		d.audit.EXPECT().Begin(ctx, gomock.Any()).Return(uuid.New())
		d.passportRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		d.audit.EXPECT().Completed(ctx, gomock.Any())

		issued, err := d.svc.Issue(ctx, actor, userID)
		require.NoError(t, err)
		assert.False(t, seen[issued.PIDToken])
		seen[issued.PIDToken] = true
	}
}

package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"payulot/internal/core/authz"
	"payulot/internal/core/domain"
	"payulot/internal/core/ports"
	"payulot/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const passportIDPrefix = "BOOP-"

// PassportServiceImpl implements ports.PassportService.
type PassportServiceImpl struct {
	passportRepo ports.PassportRepository
	walletRepo   ports.WalletRepository
	userRepo     ports.UserRepository
	hashSvc      ports.HashService
	audit        ports.AuditService
	log          zerolog.Logger
}

// NewPassportService creates a new PassportServiceImpl.
func NewPassportService(
	passportRepo ports.PassportRepository,
	walletRepo ports.WalletRepository,
	userRepo ports.UserRepository,
	hashSvc ports.HashService,
	audit ports.AuditService,
	log zerolog.Logger,
) *PassportServiceImpl {
	return &PassportServiceImpl{
		passportRepo: passportRepo,
		walletRepo:   walletRepo,
		userRepo:     userRepo,
		hashSvc:      hashSvc,
		audit:        audit,
		log:          log,
	}
}

// Issue creates a passport bound to the user's wallet. The plaintext
// pid_token leaves the service exactly once, in the return value; only its
// hash is stored.
func (s *PassportServiceImpl) Issue(ctx context.Context, actor domain.Actor, userID uuid.UUID) (*ports.IssuedPassport, error) {
	if !authz.Allowed(actor, authz.CapIssuePassports) {
		return nil, apperror.ErrForbidden()
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("user")
	}
	if !user.Role.IsCardholder() {
		return nil, apperror.ErrRoleNotEligible()
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound("user")
	}

	passportID, err := generatePassportID()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate passport id: %w", err))
	}
	pidToken, err := generateRandomHex(32)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate pid token: %w", err))
	}
	tokenHash, err := s.hashSvc.Hash(pidToken)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash pid token: %w", err))
	}

	auditID := s.audit.Begin(ctx, &domain.AdminAction{
		PerformedBy:  actor.ID,
		Action:       domain.ActionPassportIssue,
		ActionType:   "passport",
		TargetUserID: &userID,
	})

	passport := &domain.Passport{
		ID:           uuid.New(),
		PassportID:   passportID,
		PIDTokenHash: tokenHash,
		UserID:       userID,
		WalletID:     wallet.ID,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.passportRepo.Create(ctx, passport); err != nil {
		s.audit.Failed(ctx, auditID, err)
		return nil, apperror.InternalError(fmt.Errorf("create passport: %w", err))
	}
	s.audit.Completed(ctx, auditID)

	s.log.Info().
		Str("passport_id", passportID).
		Str("user_id", userID.String()).
		Str("issued_by", actor.ID.String()).
		Msg("passport issued")

	return &ports.IssuedPassport{
		PassportID: passportID,
		PIDToken:   pidToken,
	}, nil
}

// generatePassportID builds a human-presentable id like "BOOP-3F9A21C7".
func generatePassportID() (string, error) {
	suffix, err := generateRandomHex(4)
	if err != nil {
		return "", err
	}
	return passportIDPrefix + strings.ToUpper(suffix), nil
}

// generateRandomHex returns a hex string of 2*n characters.
func generateRandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"payulot/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// PassportRepo implements ports.PassportRepository.
type PassportRepo struct {
	pool Pool
}

// NewPassportRepo creates a new PassportRepo.
func NewPassportRepo(pool Pool) *PassportRepo {
	return &PassportRepo{pool: pool}
}

// Create inserts a new passport. Only the pid_token hash is stored.
func (r *PassportRepo) Create(ctx context.Context, p *domain.Passport) error {
	query := `INSERT INTO passports (id, passport_id, pid_token_hash, user_id, wallet_id, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.PassportID, p.PIDTokenHash, p.UserID, p.WalletID, p.Active, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert passport: %w", err)
	}
	return nil
}

// GetByPassportID fetches a passport by its human-presentable id. The match
// is a case-sensitive exact comparison.
func (r *PassportRepo) GetByPassportID(ctx context.Context, passportID string) (*domain.Passport, error) {
	query := `SELECT id, passport_id, pid_token_hash, user_id, wallet_id, active, created_at
		FROM passports WHERE passport_id = $1`

	p := &domain.Passport{}
	err := r.pool.QueryRow(ctx, query, passportID).Scan(
		&p.ID, &p.PassportID, &p.PIDTokenHash, &p.UserID, &p.WalletID, &p.Active, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get passport by passport id: %w", err)
	}
	return p, nil
}

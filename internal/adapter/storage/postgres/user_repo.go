package postgres

import (
	"context"
	"errors"
	"fmt"

	"payulot/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, email, role, type, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, u.ID, u.Email, u.Role, u.Type, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID fetches a user by UUID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT id, email, role, type, created_at FROM users WHERE id = $1`

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Role, &u.Type, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

package postgres

import (
	"context"
	"testing"
	"time"

	"payulot/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passportTestColumns() []string {
	return []string{"id", "passport_id", "pid_token_hash", "user_id", "wallet_id", "active", "created_at"}
}

func TestPassportRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPassportRepo(mock)
	p := &domain.Passport{
		ID:           uuid.New(),
		PassportID:   "BOOP-A1B2C3D4",
		PIDTokenHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		UserID:       uuid.New(),
		WalletID:     uuid.New(),
		Active:       true,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectExec("INSERT INTO passports").
		WithArgs(p.ID, p.PassportID, p.PIDTokenHash, p.UserID, p.WalletID, p.Active, p.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPassportRepo_GetByPassportID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPassportRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM passports WHERE passport_id").
		WithArgs("BOOP-A1B2C3D4").
		WillReturnRows(pgxmock.NewRows(passportTestColumns()).AddRow(
			id, "BOOP-A1B2C3D4", "hash", uuid.New(), uuid.New(), true, time.Now(),
		))

	result, err := repo.GetByPassportID(context.Background(), "BOOP-A1B2C3D4")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, id, result.ID)
	assert.True(t, result.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPassportRepo_GetByPassportID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPassportRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM passports WHERE passport_id").
		WithArgs("boop-a1b2c3d4").
		WillReturnRows(pgxmock.NewRows(passportTestColumns()))

	result, err := repo.GetByPassportID(context.Background(), "boop-a1b2c3d4")
	assert.NoError(t, err)
	assert.Nil(t, result)
}

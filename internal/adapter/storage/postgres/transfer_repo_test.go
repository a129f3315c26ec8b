package postgres

import (
	"context"
	"testing"
	"time"

	"payulot/internal/core/domain"
	"payulot/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransfer() *domain.Transfer {
	return &domain.Transfer{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		BankAccountID: uuid.New(),
		AmountCents:   40000,
		Status:        domain.TransferStatusPending,
		RequestedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func transferTestColumns() []string {
	return []string{"id", "user_id", "bank_account_id", "amount_cents", "status", "requested_at",
		"claimed_by", "claimed_at", "completed_at", "bank_reference", "reject_reason"}
}

func transferRow(tr *domain.Transfer) *pgxmock.Rows {
	return pgxmock.NewRows(transferTestColumns()).AddRow(
		tr.ID, tr.UserID, tr.BankAccountID, tr.AmountCents, tr.Status, tr.RequestedAt,
		tr.ClaimedBy, tr.ClaimedAt, tr.CompletedAt, tr.BankReference, tr.RejectReason,
	)
}

func TestTransferRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	tr := newTestTransfer()

	mock.ExpectExec("INSERT INTO transfers").
		WithArgs(tr.ID, tr.UserID, tr.BankAccountID, tr.AmountCents, tr.Status, tr.RequestedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), tr)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	tr := newTestTransfer()

	mock.ExpectQuery("SELECT .+ FROM transfers t WHERE t.id").
		WithArgs(tr.ID).
		WillReturnRows(transferRow(tr))

	result, err := repo.GetByID(context.Background(), tr.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, tr.ID, result.ID)
	assert.Equal(t, domain.TransferStatusPending, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM transfers t WHERE t.id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(transferTestColumns()))

	result, err := repo.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestTransferRepo_List_StatusFilter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	tr := newTestTransfer()
	status := domain.TransferStatusPending

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(status).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))

	mock.ExpectQuery("SELECT .+ FROM transfers t WHERE t.status").
		WithArgs(status, 20, 0).
		WillReturnRows(transferRow(tr))

	result, total, err := repo.List(context.Background(), ports.TransferListParams{
		Status: &status,
		Limit:  20,
		Offset: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, result, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferRepo_List_NoFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

	mock.ExpectQuery("SELECT .+ FROM transfers t").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(transferTestColumns()))

	result, total, err := repo.List(context.Background(), ports.TransferListParams{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, result)
}

func TestTransferRepo_Claim_Wins(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	id, actorID := uuid.New(), uuid.New()

	mock.ExpectExec("UPDATE transfers").
		WithArgs(id, actorID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.Claim(context.Background(), id, actorID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferRepo_Claim_AlreadyTaken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	id, actorID := uuid.New(), uuid.New()

	mock.ExpectExec("UPDATE transfers").
		WithArgs(id, actorID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.Claim(context.Background(), id, actorID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTransferRepo_Release(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	id, actorID := uuid.New(), uuid.New()

	mock.ExpectExec("UPDATE transfers").
		WithArgs(id, actorID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.Release(context.Background(), id, actorID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTransferRepo_Complete_InTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	id, actorID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE transfers").
		WithArgs(id, actorID, pgxmock.AnyArg(), "FT-2026-88431").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	ok, err := repo.Complete(context.Background(), tx, id, actorID, "FT-2026-88431")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferRepo_Complete_NotClaimant(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	id, actorID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE transfers").
		WithArgs(id, actorID, pgxmock.AnyArg(), "FT-2026-88431").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	ok, err := repo.Complete(context.Background(), tx, id, actorID, "FT-2026-88431")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTransferRepo_Reject(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	id, actorID := uuid.New(), uuid.New()

	mock.ExpectExec("UPDATE transfers").
		WithArgs(id, actorID, "duplicate request").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.Reject(context.Background(), id, actorID, "duplicate request")
	require.NoError(t, err)
	assert.True(t, ok)
}

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

func newTestEntry(entryType domain.EntryType) *domain.Transaction {
	return &domain.Transaction{
		ID:          uuid.New(),
		WalletID:    uuid.New(),
		UserID:      uuid.New(),
		EntryType:   entryType,
		AmountCents: 2500,
		Note:        "Groceries",
		Category:    domain.CategoryVendorCharge,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func transactionTestColumns() []string {
	return []string{"id", "wallet_id", "user_id", "entry_type", "amount_cents", "note", "category",
		"vendor_id", "sender_id", "recipient_id", "treasury_wallet_id", "created_at"}
}

func transactionRow(tr *domain.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(transactionTestColumns()).AddRow(
		tr.ID, tr.WalletID, tr.UserID, tr.EntryType, tr.AmountCents, tr.Note, tr.Category,
		tr.VendorID, tr.SenderID, tr.RecipientID, tr.TreasuryWalletID, tr.CreatedAt,
	)
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	entry := newTestEntry(domain.EntryTypeDebit)
	vendorID := uuid.New()
	entry.VendorID = &vendorID

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(entry.ID, entry.WalletID, entry.UserID, entry.EntryType, entry.AmountCents,
			entry.Note, entry.Category, entry.VendorID, entry.SenderID, entry.RecipientID,
			entry.TreasuryWalletID, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, entry)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	entry := newTestEntry(domain.EntryTypeCredit)

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(entry.ID).
		WillReturnRows(transactionRow(entry))

	result, err := repo.GetByID(context.Background(), entry.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, entry.ID, result.ID)
	assert.Equal(t, domain.EntryTypeCredit, result.EntryType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(transactionTestColumns()))

	result, err := repo.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestTransactionRepo_ListRecent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	first := newTestEntry(domain.EntryTypeDebit)
	second := newTestEntry(domain.EntryTypeCredit)

	rows := pgxmock.NewRows(transactionTestColumns()).
		AddRow(first.ID, first.WalletID, first.UserID, first.EntryType, first.AmountCents,
			first.Note, first.Category, first.VendorID, first.SenderID, first.RecipientID,
			first.TreasuryWalletID, first.CreatedAt).
		AddRow(second.ID, second.WalletID, second.UserID, second.EntryType, second.AmountCents,
			second.Note, second.Category, second.VendorID, second.SenderID, second.RecipientID,
			second.TreasuryWalletID, second.CreatedAt)

	mock.ExpectQuery("SELECT .+ FROM transactions ORDER BY created_at DESC").
		WithArgs(50).
		WillReturnRows(rows)

	result, err := repo.ListRecent(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, first.ID, result[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	userID := uuid.New()
	entry := newTestEntry(domain.EntryTypeDebit)
	entry.UserID = userID

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE user_id").
		WithArgs(userID, 20, 0).
		WillReturnRows(transactionRow(entry))

	result, total, err := repo.ListByUser(context.Background(), userID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, result, 1)
	assert.Equal(t, userID, result[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetReport(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	from := time.Now().AddDate(0, 0, -7)

	reportColumns := []string{"total", "debits", "credits", "debit_cents", "credit_cents",
		"treasury_funded", "vendor_charged", "bank_transferred", "treasury_adjusted"}

	mock.ExpectQuery("SELECT").
		WithArgs(from).
		WillReturnRows(pgxmock.NewRows(reportColumns).AddRow(
			int64(10), int64(5), int64(5), int64(50000), int64(50000),
			int64(30000), int64(15000), int64(5000), int64(-1000),
		))

	report, err := repo.GetReport(context.Background(), &from, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), report.TotalEntries)
	assert.Equal(t, int64(5), report.DebitEntries)
	assert.Equal(t, int64(50000), report.DebitCents)
	assert.Equal(t, int64(30000), report.TreasuryFunded)
	assert.Equal(t, int64(-1000), report.TreasuryAdjusted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetReport_NoWindow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	reportColumns := []string{"total", "debits", "credits", "debit_cents", "credit_cents",
		"treasury_funded", "vendor_charged", "bank_transferred", "treasury_adjusted"}

	mock.ExpectQuery("SELECT").
		WillReturnRows(pgxmock.NewRows(reportColumns).AddRow(
			int64(0), int64(0), int64(0), int64(0), int64(0),
			int64(0), int64(0), int64(0), int64(0),
		))

	report, err := repo.GetReport(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.TotalEntries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package integration

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"payulot/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentClaims races several processors for one pending transfer.
// Exactly one claim may win; the rest must see a conflict.
func TestConcurrentClaims(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	issuePassport(t, app)
	accountID := createBankAccount(t, app)

	citizenToken := app.tokenFor(t, app.citizen)
	code, body := app.do(t, http.MethodPost, "/api/transfers", citizenToken, map[string]any{
		"bank_account_id": accountID,
		"amount":          60.00,
	}, nil)
	require.Equal(t, http.StatusCreated, code)
	transferID := data(t, body)["id"].(string)

	const processors = 8
	tokens := make([]string, processors)
	for i := range tokens {
		actor := app.seedUser(t, fmt.Sprintf("processor%d@city.gov", i), domain.RoleAdmin, domain.TypeAccountant)
		tokens[i] = app.tokenFor(t, actor)
	}

	var won, conflicted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < processors; i++ {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			code, body := app.do(t, http.MethodPatch, "/api/transfers/"+transferID+"/claim", token, nil, nil)
			switch code {
			case http.StatusOK:
				won.Add(1)
			case http.StatusConflict:
				assert.Equal(t, "TRF_001", body["error_code"])
				conflicted.Add(1)
			default:
				t.Errorf("unexpected status %d: %v", code, body)
			}
		}(tokens[i])
	}
	wg.Wait()

	assert.Equal(t, int64(1), won.Load())
	assert.Equal(t, int64(processors-1), conflicted.Load())

	transfer, err := app.transfers.GetByID(t.Context(), mustUUID(t, transferID))
	require.NoError(t, err)
	require.NotNil(t, transfer)
	assert.Equal(t, domain.TransferStatusClaimed, transfer.Status)
	require.NotNil(t, transfer.ClaimedBy)
}

// TestConcurrentCharges fires more charges than the wallet can cover and
// verifies the ledger never overdraws and money is conserved.
func TestConcurrentCharges(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	passportID := issuePassport(t, app) // $200 balance
	vendorToken := app.tokenFor(t, app.vendor)

	// 30 charges of $10 against a $200 balance: exactly 20 can clear.
	const attempts = 30
	var succeeded, insufficient atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, body := app.do(t, http.MethodPost, "/api/vendor/passport-charge", vendorToken, map[string]any{
				"passport_id": passportID,
				"amount":      10.00,
			}, nil)
			switch code {
			case http.StatusOK:
				succeeded.Add(1)
			case http.StatusBadRequest:
				assert.Equal(t, "LGR_001", body["error_code"])
				insufficient.Add(1)
			default:
				t.Errorf("unexpected status %d: %v", code, body)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(20), succeeded.Load())
	assert.Equal(t, int64(attempts-20), insufficient.Load())

	citizenBalance := app.balanceOf(t, app.citizenWallet)
	vendorBalance := app.balanceOf(t, app.vendorWallet)
	assert.Equal(t, int64(0), citizenBalance)
	assert.Equal(t, int64(20000), vendorBalance)
	assert.Equal(t, int64(20000), citizenBalance+vendorBalance)
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

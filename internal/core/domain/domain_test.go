package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWallet_IsActive(t *testing.T) {
	tests := []struct {
		name   string
		status WalletStatus
		want   bool
	}{
		{"active", WalletStatusActive, true},
		{"suspended", WalletStatusSuspended, false},
		{"archived", WalletStatusArchived, false},
		{"pending", WalletStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Wallet{Status: tt.status}
			assert.Equal(t, tt.want, w.IsActive())
		})
	}
}

func TestTransfer_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status TransferStatus
		want   bool
	}{
		{"pending", TransferStatusPending, false},
		{"claimed", TransferStatusClaimed, false},
		{"completed", TransferStatusCompleted, true},
		{"rejected", TransferStatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Transfer{Status: tt.status}
			assert.Equal(t, tt.want, tr.IsTerminal())
		})
	}
}

func TestTransfer_ClaimedByActor(t *testing.T) {
	claimer := uuid.New()
	other := uuid.New()

	tr := &Transfer{Status: TransferStatusClaimed, ClaimedBy: &claimer}
	assert.True(t, tr.ClaimedByActor(claimer))
	assert.False(t, tr.ClaimedByActor(other))

	pending := &Transfer{Status: TransferStatusPending}
	assert.False(t, pending.ClaimedByActor(claimer))
}

func TestBankAccount_MaskedAccountNumber(t *testing.T) {
	b := &BankAccount{AccountNumber: "123456789"}
	assert.Equal(t, "****6789", b.MaskedAccountNumber())

	short := &BankAccount{AccountNumber: "42"}
	assert.Equal(t, "****42", short.MaskedAccountNumber())
}

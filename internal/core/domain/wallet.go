package domain

import (
	"time"

	"github.com/google/uuid"
)

// WalletStatus represents the lifecycle state of a wallet.
type WalletStatus string

const (
	WalletStatusActive    WalletStatus = "active"
	WalletStatusSuspended WalletStatus = "suspended"
	WalletStatusArchived  WalletStatus = "archived"
	WalletStatusPending   WalletStatus = "pending"
)

// Wallet is an account holding a balance in integer minor units (cents).
// Balances are mutated only through the ledger transfer engine; a wallet
// balance must never go negative.
type Wallet struct {
	ID           uuid.UUID    `json:"id"`
	UserID       uuid.UUID    `json:"user_id"`
	BalanceCents int64        `json:"balance_cents"`
	Status       WalletStatus `json:"status"`
	IsTreasury   bool         `json:"is_treasury"`
	IsMerchant   bool         `json:"is_merchant"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsActive returns true if the wallet may send and receive funds.
func (w *Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}

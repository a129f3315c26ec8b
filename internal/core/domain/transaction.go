package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntryType represents the side of a double-entry ledger record.
type EntryType string

const (
	EntryTypeDebit  EntryType = "debit"
	EntryTypeCredit EntryType = "credit"
)

// Transaction categories tag what kind of movement produced an entry.
const (
	CategoryTreasuryFunding    = "treasury-funding"
	CategoryVendorCharge       = "vendor-charge"
	CategoryBankTransfer       = "bank-transfer"
	CategoryTreasuryAdjustment = "treasury-adjustment"
)

// Transaction is an immutable ledger entry. Every fund movement produces
// exactly two rows (one debit, one credit) with matching amount_cents,
// created in the same unit of work. Rows are never updated or deleted.
type Transaction struct {
	ID               uuid.UUID  `json:"id"`
	WalletID         uuid.UUID  `json:"wallet_id"`
	UserID           uuid.UUID  `json:"user_id"`
	EntryType        EntryType  `json:"type"`
	AmountCents      int64      `json:"amount_cents"`
	Note             string     `json:"note"`
	Category         string     `json:"category"`
	VendorID         *uuid.UUID `json:"vendor_id,omitempty"`
	SenderID         *uuid.UUID `json:"sender_id,omitempty"`
	RecipientID      *uuid.UUID `json:"recipient_id,omitempty"`
	TreasuryWalletID *uuid.UUID `json:"treasury_wallet_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

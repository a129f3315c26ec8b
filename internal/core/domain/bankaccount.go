package domain

import (
	"time"

	"github.com/google/uuid"
)

// BankAccount is a saved payout destination owned by a user. Only the
// masked last four digits of the account number are ever returned outward.
type BankAccount struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	HolderName    string    `json:"holder_name"`
	BankName      string    `json:"bank_name"`
	AccountNumber string    `json:"-"`
	RoutingNumber string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// MaskedAccountNumber returns the account number reduced to its last four
// digits, e.g. "****6789".
func (b *BankAccount) MaskedAccountNumber() string {
	n := b.AccountNumber
	if len(n) <= 4 {
		return "****" + n
	}
	return "****" + n[len(n)-4:]
}

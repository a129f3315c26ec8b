package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransferStatus represents the payout claim state machine.
// pending -> claimed -> completed, with claimed -> pending (release)
// and pending|claimed -> rejected as additional edges.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusClaimed   TransferStatus = "claimed"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusRejected  TransferStatus = "rejected"
)

// MinBankReferenceLen is the minimum length of a bank reference accepted
// when completing a transfer.
const MinBankReferenceLen = 4

// Transfer is a cardholder's request to move wallet funds to an external
// bank account. claimed_by is set iff status is claimed; completed_at and
// bank_reference are set iff status is completed.
type Transfer struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"user_id"`
	BankAccountID uuid.UUID      `json:"bank_account_id"`
	AmountCents   int64          `json:"amount_cents"`
	Status        TransferStatus `json:"status"`
	RequestedAt   time.Time      `json:"requested_at"`
	ClaimedBy     *uuid.UUID     `json:"claimed_by,omitempty"`
	ClaimedAt     *time.Time     `json:"claimed_at,omitempty"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	BankReference *string        `json:"bank_reference,omitempty"`
	RejectReason  *string        `json:"reject_reason,omitempty"`
}

// IsTerminal returns true if the transfer can no longer change state.
func (t *Transfer) IsTerminal() bool {
	return t.Status == TransferStatusCompleted || t.Status == TransferStatusRejected
}

// ClaimedByActor returns true if the transfer is currently claimed by the
// given staff member.
func (t *Transfer) ClaimedByActor(actorID uuid.UUID) bool {
	return t.Status == TransferStatusClaimed && t.ClaimedBy != nil && *t.ClaimedBy == actorID
}

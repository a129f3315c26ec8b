package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdminActionStatus is the outcome recorded for a privileged operation.
type AdminActionStatus string

const (
	AdminActionPending   AdminActionStatus = "pending"
	AdminActionCompleted AdminActionStatus = "completed"
	AdminActionFailed    AdminActionStatus = "failed"
)

// Well-known audited action names.
const (
	ActionAddFunds         = "add-funds"
	ActionTreasuryAdjust   = "treasury-adjust"
	ActionPassportCharge   = "passport-charge"
	ActionTransferClaim    = "transfer-claim"
	ActionTransferRelease  = "transfer-release"
	ActionTransferComplete = "transfer-complete"
	ActionTransferReject   = "transfer-reject"
	ActionPassportIssue    = "passport-issue"
)

// AdminAction is an append-only audit row recording a privileged state
// change. Rows are never mutated except to append a terminal status.
type AdminAction struct {
	ID           uuid.UUID         `json:"id"`
	PerformedBy  uuid.UUID         `json:"performed_by"`
	Action       string            `json:"action"`
	TargetUserID *uuid.UUID        `json:"target_user_id,omitempty"`
	TargetID     *string           `json:"target_id,omitempty"`
	ActionType   string            `json:"type"`
	Status       AdminActionStatus `json:"status"`
	ErrorMessage *string           `json:"error_message,omitempty"`
	RequestedAt  time.Time         `json:"requested_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
	FailedAt     *time.Time        `json:"failed_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Passport maps a human-presentable passport_id (plus a secret pid_token,
// stored hashed) to a user and their wallet. Vendors use it to identify a
// buyer at point of sale without the buyer authenticating. passport_id is
// globally unique (case-insensitive) among active passports; lookups at
// charge time are case-sensitive exact matches.
type Passport struct {
	ID           uuid.UUID `json:"id"`
	PassportID   string    `json:"passport_id"`
	PIDTokenHash string    `json:"-"`
	UserID       uuid.UUID `json:"user_id"`
	WalletID     uuid.UUID `json:"wallet_id"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

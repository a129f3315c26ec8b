package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyLog caches the result of a completed vendor charge so a retried
// request returns the original outcome instead of double-charging.
type IdempotencyLog struct {
	Key          string    `json:"key"` // Format: "vendor_id:idempotency_key"
	DebitID      uuid.UUID `json:"debit_id"`
	ResponseJSON []byte    `json:"response_json"` // Cached charge result
	CreatedAt    time.Time `json:"created_at"`
}

// BuildChargeIdempotencyKey constructs the standard key format scoping a
// caller-supplied idempotency key to the charging vendor.
func BuildChargeIdempotencyKey(vendorID uuid.UUID, key string) string {
	return vendorID.String() + ":" + key
}

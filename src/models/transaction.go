package models

import (
	"mbs/src/types"

	"github.com/google/uuid"
)

// Transaction is one payment attempt against a booking. A booking may
// accumulate several over time, but at most one non-terminal one.
type Transaction struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	BookingID        uint                    `json:"booking_id,omitempty"`
	Reference        string                  `gorm:"uniqueIndex" json:"reference,omitempty"`
	IdempotencyKey   *string                 `gorm:"uniqueIndex" json:"idempotency_key,omitempty"`
	Amount           float64                 `gorm:"type:decimal(10,2)" json:"amount,omitempty"`
	CommissionAmount float64                 `gorm:"type:decimal(10,2)" json:"commission_amount,omitempty"`
	Currency         string                  `json:"currency,omitempty"`
	Status           types.TransactionStatus `gorm:"default:'pending'" json:"status,omitempty"`
	ProviderRef      *string                 `json:"provider_ref,omitempty"`
	PaymentMethod    string                  `json:"payment_method,omitempty"`
	Metadata         types.JSONB             `json:"metadata,omitempty"`

	Booking Booking `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}

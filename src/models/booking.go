package models

import (
	"mbs/src/types"
	"time"
)

type Booking struct {
	ID               uint                `gorm:"primarykey" json:"id"`
	Reference        string              `gorm:"uniqueIndex" json:"reference,omitempty"`
	CustomerID       uint                `json:"customer_id,omitempty"`
	ProviderID       uint                `json:"provider_id,omitempty"`
	ServiceID        uint                `json:"service_id,omitempty"`
	ScheduledStart   time.Time           `json:"scheduled_start,omitempty"`
	ScheduledEnd     time.Time           `json:"scheduled_end,omitempty"`
	TotalAmount      float64             `gorm:"type:decimal(10,2)" json:"total_amount,omitempty"`
	CommissionAmount *float64            `gorm:"type:decimal(10,2)" json:"commission_amount,omitempty"`
	Status           types.BookingStatus `gorm:"default:'requested'" json:"status,omitempty"`
	PaymentStatus    types.PaymentStatus `gorm:"default:'pending'" json:"payment_status,omitempty"`
	Address          string              `json:"address,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	Metadata         types.JSONB         `gorm:"type:jsonb" json:"metadata,omitempty"`

	Customer      *User                   `gorm:"foreignKey:customer_id" json:"customer,omitempty"`
	Provider      *User                   `gorm:"foreignKey:provider_id" json:"provider,omitempty"`
	Service       *Service                `gorm:"foreignKey:service_id" json:"service,omitempty"`
	StatusHistory []*BookingStatusHistory `json:"status_history,omitempty"`
	Transactions  []*Transaction          `json:"transactions,omitempty"`

	types.Timestamps
}

// BookingStatusHistory is an append-only audit entry, one row per transition.
// FromStatus is nil for the creation entry. Rows are never updated or deleted.
type BookingStatusHistory struct {
	ID         uint                 `gorm:"primarykey" json:"id"`
	BookingID  uint                 `json:"booking_id,omitempty"`
	FromStatus *types.BookingStatus `json:"from_status,omitempty"`
	ToStatus   types.BookingStatus  `json:"to_status,omitempty"`
	ActorID    uint                 `json:"actor_id,omitempty"`
	Reason     string               `json:"reason,omitempty"`
	CreatedAt  time.Time            `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`

	Booking *Booking `gorm:"foreignKey:booking_id" json:"-"`
}

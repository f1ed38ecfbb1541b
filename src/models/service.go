package models

import (
	"mbs/src/types"
)

// Service is the bookable-service snapshot read from the catalog. The core
// never writes it; price and duration are copied into bookings at creation.
type Service struct {
	ID                      uint            `gorm:"primarykey" json:"id"`
	ProviderID              uint            `json:"provider_id,omitempty"`
	Name                    string          `json:"name,omitempty"`
	Category                string          `json:"category,omitempty"`
	PriceType               types.PriceType `gorm:"default:'fixed'" json:"price_type,omitempty"`
	PriceAmount             float64         `gorm:"type:decimal(10,2)" json:"price_amount,omitempty"`
	DurationEstimateMinutes *uint           `json:"duration_estimate_minutes,omitempty"`
	IsActive                bool            `gorm:"default:true" json:"is_active,omitempty"`

	Provider *User `gorm:"foreignKey:provider_id" json:"provider,omitempty"`

	types.Timestamps
}

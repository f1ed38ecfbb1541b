package models

import (
	"mbs/src/types"
)

// Commission is a platform commission rule. Rules are configured outside the
// core; the core only reads active ones.
type Commission struct {
	ID         uint                  `gorm:"primarykey" json:"id"`
	Scope      types.CommissionScope `gorm:"default:'all'" json:"scope,omitempty"`
	Category   *string               `json:"category,omitempty"`
	ProviderID *uint                 `json:"provider_id,omitempty"`
	Rate       float64               `gorm:"type:decimal(5,4)" json:"rate,omitempty"`
	FlatFee    float64               `gorm:"type:decimal(10,2)" json:"flat_fee,omitempty"`
	IsActive   bool                  `gorm:"default:true" json:"is_active,omitempty"`

	Provider *User `gorm:"foreignKey:provider_id" json:"-"`

	types.Timestamps
}

package models

import (
	"mbs/src/types"
)

type User struct {
	ID       uint       `gorm:"primarykey" json:"id"`
	Name     string     `json:"name,omitempty"`
	Email    string     `json:"email,omitempty"`
	Phone    string     `json:"phone,omitempty"`
	Role     types.Role `gorm:"default:'customer'" json:"role,omitempty"`
	IsActive bool       `gorm:"default:true" json:"is_active,omitempty"`

	Bookings []Booking `gorm:"foreignKey:customer_id" json:"bookings,omitempty"`
	Services []Service `gorm:"foreignKey:provider_id" json:"services,omitempty"`

	types.Timestamps
}

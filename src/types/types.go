package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Role string

const (
	ROLE_CUSTOMER Role = "customer"
	ROLE_PROVIDER Role = "provider"
	ROLE_ADMIN    Role = "admin"
)

type BookingStatus string

const (
	BOOKING_REQUESTED   BookingStatus = "requested"
	BOOKING_CONFIRMED   BookingStatus = "confirmed"
	BOOKING_IN_PROGRESS BookingStatus = "in_progress"
	BOOKING_COMPLETED   BookingStatus = "completed"
	BOOKING_CANCELLED   BookingStatus = "cancelled"
	BOOKING_DISPUTED    BookingStatus = "disputed"
)

// NonTerminalBookingStatuses are the statuses that still occupy a provider's
// calendar and participate in conflict detection.
var NonTerminalBookingStatuses = []BookingStatus{
	BOOKING_REQUESTED,
	BOOKING_CONFIRMED,
	BOOKING_IN_PROGRESS,
}

type PaymentStatus string

const (
	PAYMENT_PENDING    PaymentStatus = "pending"
	PAYMENT_AUTHORIZED PaymentStatus = "authorized"
	PAYMENT_PAID       PaymentStatus = "paid"
	PAYMENT_FAILED     PaymentStatus = "failed"
	PAYMENT_REFUNDED   PaymentStatus = "refunded"
)

type TransactionStatus string

const (
	TRANSACTION_PENDING    TransactionStatus = "pending"
	TRANSACTION_PROCESSING TransactionStatus = "processing"
	TRANSACTION_SUCCESS    TransactionStatus = "success"
	TRANSACTION_FAILED     TransactionStatus = "failed"
	TRANSACTION_REFUNDED   TransactionStatus = "refunded"
	TRANSACTION_CANCELED   TransactionStatus = "cancelled"
)

func (s TransactionStatus) Terminal() bool {
	switch s {
	case TRANSACTION_SUCCESS, TRANSACTION_FAILED, TRANSACTION_REFUNDED, TRANSACTION_CANCELED:
		return true
	}
	return false
}

type CommissionScope string

const (
	COMMISSION_SCOPE_ALL      CommissionScope = "all"
	COMMISSION_SCOPE_CATEGORY CommissionScope = "category"
	COMMISSION_SCOPE_PROVIDER CommissionScope = "provider"
)

type PriceType string

const (
	PRICE_HOURLY PriceType = "hourly"
	PRICE_FIXED  PriceType = "fixed"
)

type CreateBookingRequestBody struct {
	ServiceID      uint     `json:"service_id" binding:"required"`
	ScheduledStart string   `json:"scheduled_start" binding:"required,bookabledate"`
	ScheduledEnd   *string  `json:"scheduled_end,omitempty" binding:"omitempty,bookabledate"`
	DurationHours  *float64 `json:"duration_hours,omitempty" binding:"omitempty,gt=0"`
	Address        string   `json:"address" binding:"required"`
	Notes          string   `json:"notes,omitempty"`
}

type UpdateBookingStatusRequestBody struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason,omitempty"`
}

type ChargeRequestBody struct {
	BookingID uint   `json:"booking_id" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

type ManualConfirmRequestBody struct {
	BookingID      uint    `json:"booking_id" binding:"required"`
	TransactionRef string  `json:"transaction_ref" binding:"required"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod  string  `json:"payment_method" binding:"required"`
	Notes          string  `json:"notes,omitempty"`
}

type BookingsQueryFilters struct {
	Status        string `form:"status,omitempty"`
	PaymentStatus string `form:"payment_status,omitempty"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

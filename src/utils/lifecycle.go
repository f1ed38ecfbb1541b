package utils

import (
	"fmt"

	"mbs/src/db"
	"mbs/src/models"
	"mbs/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var bookingTransitions = map[types.BookingStatus][]types.BookingStatus{
	types.BOOKING_REQUESTED:   {types.BOOKING_CONFIRMED, types.BOOKING_CANCELLED},
	types.BOOKING_CONFIRMED:   {types.BOOKING_IN_PROGRESS, types.BOOKING_CANCELLED},
	types.BOOKING_IN_PROGRESS: {types.BOOKING_COMPLETED, types.BOOKING_DISPUTED},
	types.BOOKING_COMPLETED:   {types.BOOKING_DISPUTED},
	types.BOOKING_DISPUTED:    {types.BOOKING_COMPLETED, types.BOOKING_CANCELLED},
	types.BOOKING_CANCELLED:   {},
}

// CanTransition reports whether a booking may move from one status to
// another. Cancelled is terminal.
func CanTransition(from, to types.BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionBooking moves a booking to a new status and appends the audit
// history row in the same transaction, so status and history can never
// drift apart. The booking row is locked for the duration of the update.
func TransitionBooking(bookingID uint, to types.BookingStatus, actorID uint, reason string) (*models.Booking, error) {
	var booking models.Booking
	err := db.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, bookingID).
			Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewAPIError(types.ErrNotFound, "booking not found")
			}
			return err
		}
		from := booking.Status
		if !CanTransition(from, to) {
			return types.NewAPIError(types.ErrIllegalTransition, fmt.Sprintf("cannot transition booking from %s to %s", from, to))
		}
		if err := tx.
			Model(&booking).
			Update("status", to).
			Error; err != nil {
			return err
		}
		history := models.BookingStatusHistory{
			BookingID:  booking.ID,
			FromStatus: &from,
			ToStatus:   to,
			ActorID:    actorID,
			Reason:     reason,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func AcceptBooking(bookingID, actorID uint, reason string) (*models.Booking, error) {
	if reason == "" {
		reason = "accepted by provider"
	}
	return TransitionBooking(bookingID, types.BOOKING_CONFIRMED, actorID, reason)
}

func DeclineBooking(bookingID, actorID uint, reason string) (*models.Booking, error) {
	if reason == "" {
		reason = "declined by provider"
	}
	return TransitionBooking(bookingID, types.BOOKING_CANCELLED, actorID, reason)
}

func StartBooking(bookingID, actorID uint, reason string) (*models.Booking, error) {
	return TransitionBooking(bookingID, types.BOOKING_IN_PROGRESS, actorID, reason)
}

func CompleteBooking(bookingID, actorID uint, reason string) (*models.Booking, error) {
	return TransitionBooking(bookingID, types.BOOKING_COMPLETED, actorID, reason)
}

func CancelBooking(bookingID, actorID uint, reason string) (*models.Booking, error) {
	if reason == "" {
		reason = "cancelled"
	}
	return TransitionBooking(bookingID, types.BOOKING_CANCELLED, actorID, reason)
}

func DisputeBooking(bookingID, actorID uint, reason string) (*models.Booking, error) {
	if reason == "" {
		reason = "disputed"
	}
	return TransitionBooking(bookingID, types.BOOKING_DISPUTED, actorID, reason)
}

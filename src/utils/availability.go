package utils

import (
	"fmt"
	"time"

	"mbs/src/models"
	"mbs/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back slots sharing a boundary do not
// overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ValidateInterval rejects empty, inverted and past intervals.
func ValidateInterval(start, end, now time.Time) error {
	if !end.After(start) {
		return types.NewAPIError(types.ErrValidation, "scheduled end must be after start")
	}
	if start.Before(now) {
		return types.NewAPIError(types.ErrValidation, "cannot book a slot in the past")
	}
	return nil
}

// IsAvailable reports whether the provider has no booking in a non-terminal
// status overlapping [start, end). excludeBookingID, when non-zero, skips
// that booking so reschedule checks don't collide with themselves.
func IsAvailable(tx *gorm.DB, providerID uint, start, end time.Time, excludeBookingID uint) (bool, error) {
	if err := ValidateInterval(start, end, time.Now()); err != nil {
		return false, err
	}
	q := tx.
		Model(&models.Booking{}).
		Where("provider_id = ?", providerID).
		Where("status IN ?", types.NonTerminalBookingStatuses).
		Where("scheduled_start < ? AND scheduled_end > ?", end, start)
	if excludeBookingID > 0 {
		q = q.Where("id <> ?", excludeBookingID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// CheckAndReserve verifies the slot inside the caller's transaction. The
// provider row is locked first: locking only the conflicting bookings cannot
// serialize two inserts into an empty calendar, since neither transaction
// sees the other's uncommitted row. With the anchor held, the conflict scan
// observes every committed reservation. Must be called within a transaction.
func CheckAndReserve(tx *gorm.DB, providerID uint, start, end time.Time) error {
	var provider models.User
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&provider, providerID).
		Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return types.NewAPIError(types.ErrNotFound, "provider not found")
		}
		return err
	}
	var conflicts []models.Booking
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("provider_id = ?", providerID).
		Where("status IN ?", types.NonTerminalBookingStatuses).
		Where("scheduled_start < ? AND scheduled_end > ?", end, start).
		Find(&conflicts).
		Error; err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return types.NewAPIError(types.ErrSlotUnavailable, fmt.Sprintf("provider is not available between %s and %s", start.Format(time.RFC3339), end.Format(time.RFC3339)))
	}
	return nil
}

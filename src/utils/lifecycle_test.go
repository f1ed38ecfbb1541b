package utils

import (
	"testing"

	"mbs/src/types"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from, to types.BookingStatus
	}{
		{types.BOOKING_REQUESTED, types.BOOKING_CONFIRMED},
		{types.BOOKING_REQUESTED, types.BOOKING_CANCELLED},
		{types.BOOKING_CONFIRMED, types.BOOKING_IN_PROGRESS},
		{types.BOOKING_CONFIRMED, types.BOOKING_CANCELLED},
		{types.BOOKING_IN_PROGRESS, types.BOOKING_COMPLETED},
		{types.BOOKING_IN_PROGRESS, types.BOOKING_DISPUTED},
		{types.BOOKING_COMPLETED, types.BOOKING_DISPUTED},
		{types.BOOKING_DISPUTED, types.BOOKING_COMPLETED},
		{types.BOOKING_DISPUTED, types.BOOKING_CANCELLED},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	statuses := []types.BookingStatus{
		types.BOOKING_REQUESTED,
		types.BOOKING_CONFIRMED,
		types.BOOKING_IN_PROGRESS,
		types.BOOKING_COMPLETED,
		types.BOOKING_CANCELLED,
		types.BOOKING_DISPUTED,
	}
	isAllowed := func(from, to types.BookingStatus) bool {
		for _, tc := range allowed {
			if tc.from == from && tc.to == to {
				return true
			}
		}
		return false
	}
	for _, from := range statuses {
		for _, to := range statuses {
			if !isAllowed(from, to) {
				assert.False(t, CanTransition(from, to), "%s -> %s should be rejected", from, to)
			}
		}
	}
}

func TestCancelledIsTerminal(t *testing.T) {
	for _, to := range []types.BookingStatus{
		types.BOOKING_REQUESTED,
		types.BOOKING_CONFIRMED,
		types.BOOKING_IN_PROGRESS,
		types.BOOKING_COMPLETED,
		types.BOOKING_DISPUTED,
	} {
		assert.False(t, CanTransition(types.BOOKING_CANCELLED, to))
	}
}

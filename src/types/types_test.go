package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONBRoundTrip(t *testing.T) {
	meta := JSONB{"recorded_by": "9", "notes": "cash at office"}

	val, err := meta.Value()
	assert.NoError(t, err)

	var scanned JSONB
	err = scanned.Scan([]byte(val.(string)))
	assert.NoError(t, err)
	assert.Equal(t, "9", scanned["recorded_by"])
	assert.Equal(t, "cash at office", scanned["notes"])
}

func TestAPIErrorStatusCodes(t *testing.T) {
	cases := map[ErrorKind]int{
		ErrValidation:        400,
		ErrIllegalTransition: 400,
		ErrNotFound:          404,
		ErrPermissionDenied:  403,
		ErrSlotUnavailable:   409,
		ErrAlreadyPaid:       409,
		ErrInvalidState:      409,
		ErrInternal:          500,
	}
	for kind, status := range cases {
		assert.Equal(t, status, NewAPIError(kind, "x").StatusCode())
	}
}

package utils

import (
	"testing"
	"time"

	"mbs/src/models"
	"mbs/src/types"

	"github.com/stretchr/testify/assert"
)

func TestResolveEnd(t *testing.T) {
	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	estimate := uint(90)
	service := &models.Service{DurationEstimateMinutes: &estimate}

	// explicit end wins
	end := start.Add(2 * time.Hour)
	resolved, err := ResolveEnd(service, start, &end, nil)
	assert.NoError(t, err)
	assert.Equal(t, end, resolved)

	// duration applied to start
	hours := 3.0
	resolved, err = ResolveEnd(service, start, nil, &hours)
	assert.NoError(t, err)
	assert.Equal(t, start.Add(3*time.Hour), resolved)

	// both given and consistent
	hours = 2.0
	resolved, err = ResolveEnd(service, start, &end, &hours)
	assert.NoError(t, err)
	assert.Equal(t, end, resolved)

	// both given and disagreeing
	hours = 4.0
	_, err = ResolveEnd(service, start, &end, &hours)
	assert.Error(t, err)
	assert.Equal(t, types.ErrValidation, types.AsAPIError(err).Kind)

	// neither given falls back to the service estimate
	resolved, err = ResolveEnd(service, start, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, start.Add(90*time.Minute), resolved)

	// no estimate defaults to one hour
	resolved, err = ResolveEnd(&models.Service{}, start, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, start.Add(time.Hour), resolved)
}

func TestComputeTotal(t *testing.T) {
	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)

	hourly := &models.Service{PriceType: types.PRICE_HOURLY, PriceAmount: 25}
	assert.Equal(t, 50.00, ComputeTotal(hourly, start, start.Add(2*time.Hour)))
	assert.Equal(t, 37.50, ComputeTotal(hourly, start, start.Add(90*time.Minute)))

	fixed := &models.Service{PriceType: types.PRICE_FIXED, PriceAmount: 120}
	assert.Equal(t, 120.00, ComputeTotal(fixed, start, start.Add(5*time.Hour)))
}

package shipping

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownMethod(t *testing.T) {
	method, err := Lookup("lagos-flat")
	require.NoError(t, err)
	assert.Equal(t, "Lagos Flat Rate", method.Name)
	assert.Equal(t, 3100.0, method.Price)
	assert.Equal(t, 1, method.MinDays)
	assert.Equal(t, 3, method.MaxDays)
}

func TestLookupUnknownMethod(t *testing.T) {
	_, err := Lookup("moon-base")

	var unknown UnknownMethodError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "moon-base", unknown.Key)
}

func TestCostAppliesFreeShippingThreshold(t *testing.T) {
	cost, err := Cost("north-doorstep", 10000)
	require.NoError(t, err)
	assert.Equal(t, 6450.0, cost)

	cost, err = Cost("pickup", 500)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cost)
}

func TestEstimatedShipDateUsesLeadTime(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	got, err := EstimatedShipDate(now, "lagos-flat")
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 1), got)

	got, err = EstimatedShipDate(now, "south-east")
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 3), got)
}

func TestEstimatedDeliveryUsesOuterWindow(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	got, err := EstimatedDelivery(now, "abuja-doorstep")
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 6), got)
}

func TestMethodsSortedAndComplete(t *testing.T) {
	methods := Methods()
	require.Len(t, methods, 15)
	for i := 1; i < len(methods); i++ {
		assert.Less(t, methods[i-1].Key, methods[i].Key)
	}
}

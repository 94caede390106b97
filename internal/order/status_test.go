package order

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionAllowsDocumentedLifecycle(t *testing.T) {
	legal := []struct {
		from Status
		to   Status
	}{
		{StatusPending, StatusProcessing},
		{StatusPending, StatusCancelled},
		{StatusProcessing, StatusShipped},
		{StatusProcessing, StatusCancelled},
		{StatusShipped, StatusDelivered},
		{StatusShipped, StatusCancelled},
	}

	for _, tc := range legal {
		next, err := Transition(tc.from, tc.to)
		require.NoError(t, err, "%s -> %s should be legal", tc.from, tc.to)
		assert.Equal(t, tc.to, next)
	}
}

func TestTransitionRejectsEverythingElse(t *testing.T) {
	all := []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
	legal := map[Status]map[Status]bool{
		StatusPending:    {StatusProcessing: true, StatusCancelled: true},
		StatusProcessing: {StatusShipped: true, StatusCancelled: true},
		StatusShipped:    {StatusDelivered: true, StatusCancelled: true},
	}

	for _, from := range all {
		for _, to := range all {
			if legal[from][to] {
				continue
			}
			_, err := Transition(from, to)
			require.Error(t, err, "%s -> %s should be rejected", from, to)

			var illegal IllegalTransitionError
			require.True(t, errors.As(err, &illegal))
			assert.Equal(t, from, illegal.From)
			assert.Equal(t, to, illegal.To)
		}
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	_, err := Transition(StatusPending, Status("completed"))
	assert.Error(t, err)
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusShipped.IsTerminal())
}

func TestNewReferenceFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^MID-\d{13,}-[0-9A-Z]{5}$`)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		ref := NewReference()
		require.Regexp(t, pattern, ref)
		require.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}

func TestNewTrackingNumberNotEmpty(t *testing.T) {
	trk := NewTrackingNumber()
	assert.NotEmpty(t, trk)
	assert.Regexp(t, `^TRK-`, trk)
}

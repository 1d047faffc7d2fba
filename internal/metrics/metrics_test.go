package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	Register()

	before := testutil.ToFloat64(reservations.WithLabelValues("CASH", "CONFIRMED"))
	IncReservation("CASH", "CONFIRMED")
	assert.Equal(t, before+1, testutil.ToFloat64(reservations.WithLabelValues("CASH", "CONFIRMED")))

	before = testutil.ToFloat64(reconcilerEvents.WithLabelValues("confirmed"))
	IncReconcilerEvent("confirmed")
	assert.Equal(t, before+1, testutil.ToFloat64(reconcilerEvents.WithLabelValues("confirmed")))

	before = testutil.ToFloat64(sweeperCancelled)
	IncSweeperCancelled()
	assert.Equal(t, before+1, testutil.ToFloat64(sweeperCancelled))
}

package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReservationIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^R[A-Z0-9]{7}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewReservationID()
		assert.Regexp(t, pattern, id)
		seen[id] = struct{}{}
	}

	// 1000 draws from a 36^7 space should never collide.
	assert.Len(t, seen, 1000)
}

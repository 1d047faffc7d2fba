package service

import (
	"crypto/rand"
)

const (
	idPrefix  = "R"
	idCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idRandLen = 7
)

// IDGenerator produces reservation identifiers. Injectable so tests can pin
// deterministic ids.
type IDGenerator func() string

// NewReservationID returns an id of the form "R" plus seven random
// upper-case alphanumeric characters. Collisions are not defended against
// beyond the entropy itself; a duplicate surfaces as a primary-key error on
// insert.
func NewReservationID() string {
	buf := make([]byte, idRandLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken; nothing
		// sensible to fall back to.
		panic(err)
	}
	for i, b := range buf {
		buf[i] = idCharset[int(b)%len(idCharset)]
	}
	return idPrefix + string(buf)
}

package database

import "errors"

// ErrNotFound is returned when no reservation exists for the requested id.
var ErrNotFound = errors.New("reservation not found")

// ErrStaleStatus is returned when a conditional status update matched no
// row: either the id is unknown or another writer already moved the
// reservation out of the expected status. The losing side of a
// reconciler/sweeper race sees this and treats it as a no-op.
var ErrStaleStatus = errors.New("reservation status changed concurrently")

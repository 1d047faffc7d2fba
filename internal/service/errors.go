package service

import "errors"

// ErrInvalidReservation covers requests rejected before anything is
// persisted: a date window outside 1..30 days or an unknown enum value.
var ErrInvalidReservation = errors.New("invalid reservation")

// ErrPaymentNotConfirmed means the card provider answered and the answer was
// not CONFIRMED. The caller must resolve it with the provider.
var ErrPaymentNotConfirmed = errors.New("credit card payment not confirmed")

// ErrVerifierUnavailable means the card provider could not be reached or
// timed out. Deliberately distinct from ErrPaymentNotConfirmed: "could not
// verify" is retryable, "verified as rejected" is not.
var ErrVerifierUnavailable = errors.New("payment verifier unavailable")

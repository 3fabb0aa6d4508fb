package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed input such as a phone that is not 10 digits
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when no code was ever issued for the phone
	ErrNotFound = errors.New("otp not found")
	// ErrExpired is returned for verification after the validity window
	ErrExpired = errors.New("otp expired")
	// ErrMismatch is returned when the submitted code is wrong
	ErrMismatch = errors.New("invalid otp")
	// ErrAlreadyVerified is returned when the code was already used
	ErrAlreadyVerified = errors.New("otp already verified")
	// ErrResendTooSoon is returned when the current code is still valid
	ErrResendTooSoon = errors.New("otp is still valid; wait for it to expire before resending")
	// ErrTooManyAttempts is returned once the optional attempt limit is reached
	ErrTooManyAttempts = errors.New("too many verification attempts")
)

// DeliveryError reports that the code was stored but could not be sent.
// It is a warning: the issued record remains valid.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("otp delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// OTPState is the lifecycle position of a destination's code
type OTPState string

const (
	OTPStateNone     OTPState = "none"
	OTPStateIssued   OTPState = "issued"
	OTPStateVerified OTPState = "verified"
	OTPStateExpired  OTPState = "expired"
)

// PhoneOTP represents a one-time code issued to a phone number.
// There is at most one record per phone; issuing again overwrites it.
type PhoneOTP struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Phone        string    `gorm:"size:10;not null;uniqueIndex" json:"phone"`
	Code         string    `gorm:"size:255;not null" json:"-"`
	IssuedAt     time.Time `gorm:"not null" json:"issued_at"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	AttemptCount int       `gorm:"not null;default:0" json:"attempt_count"`
	Verified     bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName sets the table name to 'phone_otp'
func (PhoneOTP) TableName() string { return "phone_otp" }

// IsExpired reports whether the code is past its validity window at now
func (o *PhoneOTP) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// State derives the lifecycle state at now
func (o *PhoneOTP) State(now time.Time) OTPState {
	switch {
	case o.Verified:
		return OTPStateVerified
	case o.IsExpired(now):
		return OTPStateExpired
	default:
		return OTPStateIssued
	}
}

// CanResend reports whether a new code may be issued at now. A countdown
// reaching zero at ExpiresAt allows a resend at that same instant.
func (o *PhoneOTP) CanResend(now time.Time) bool {
	return o.Verified || !now.Before(o.ExpiresAt)
}

// RemainingSeconds returns whole seconds of validity left at now, rounded up
func (o *PhoneOTP) RemainingSeconds(now time.Time) int {
	return SecondsUntil(now, o.ExpiresAt)
}

// SecondsUntil returns the ceiling of (deadline - now) in seconds, never negative
func SecondsUntil(now, deadline time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// IssuePhoneOTPRequest payload to issue or resend a phone OTP
type IssuePhoneOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// IssuePhoneOTPResponse is returned after a code is issued. Code is only
// populated when in-app disclosure is enabled.
type IssuePhoneOTPResponse struct {
	Phone     string    `json:"phone"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	ExpiresIn int       `json:"expires_in"`
	Code      string    `json:"code,omitempty"`
}

// VerifyPhoneOTPRequest payload to verify phone OTP. When UserID is set the
// user's mobile number is marked verified on success.
type VerifyPhoneOTPRequest struct {
	Phone  string     `json:"phone" binding:"required"`
	Code   string     `json:"code" binding:"required"`
	UserID *uuid.UUID `json:"user_id,omitempty"`
}

// VerifyPhoneOTPResponse indicates verification result
type VerifyPhoneOTPResponse struct {
	Verified     bool   `json:"verified"`
	AttemptCount int    `json:"attempt_count"`
	Message      string `json:"message"`
}

// PhoneOTPStatusResponse drives the client countdown and resend button
type PhoneOTPStatusResponse struct {
	Phone            string     `json:"phone"`
	State            OTPState   `json:"state"`
	RemainingSeconds int        `json:"remaining_seconds"`
	CanResend        bool       `json:"can_resend"`
	AttemptCount     int        `json:"attempt_count"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhoneOTP_State(t *testing.T) {
	issued := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	otp := &PhoneOTP{IssuedAt: issued, ExpiresAt: issued.Add(10 * time.Minute)}

	assert.Equal(t, OTPStateIssued, otp.State(issued))
	assert.Equal(t, OTPStateIssued, otp.State(issued.Add(10*time.Minute)), "expiry instant is still valid")
	assert.Equal(t, OTPStateExpired, otp.State(issued.Add(10*time.Minute+time.Nanosecond)))

	otp.Verified = true
	assert.Equal(t, OTPStateVerified, otp.State(issued.Add(time.Hour)))
}

func TestSecondsUntil(t *testing.T) {
	now := time.Unix(1000, 0)

	assert.Equal(t, 600, SecondsUntil(now, now.Add(10*time.Minute)))
	assert.Equal(t, 1, SecondsUntil(now, now.Add(1*time.Millisecond)))
	assert.Equal(t, 0, SecondsUntil(now, now))
	assert.Equal(t, 0, SecondsUntil(now, now.Add(-time.Minute)))
}

func TestPhoneOTP_CanResendFromExpiryInstant(t *testing.T) {
	issued := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	otp := &PhoneOTP{IssuedAt: issued, ExpiresAt: issued.Add(time.Minute)}

	assert.False(t, otp.CanResend(issued.Add(59*time.Second)))
	assert.True(t, otp.CanResend(otp.ExpiresAt))
	assert.False(t, otp.IsExpired(otp.ExpiresAt))
	assert.True(t, otp.CanResend(otp.ExpiresAt.Add(time.Second)))

	otp.Verified = true
	assert.True(t, otp.CanResend(issued))
}

package utils

import "mediconnect-backend/internal/common/config"

// PaymentEnvironment returns the Razorpay environment (test/live) for an app environment
// prod or production → live
// Any other value → test
func PaymentEnvironment(appEnv string) string {
	if config.IsProduction(appEnv) {
		return "live"
	}
	return "test"
}

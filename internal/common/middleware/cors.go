package middleware

import (
	"errors"
	"time"

	"mediconnect-backend/internal/common/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ErrOriginsRequired is returned when production runs without an explicit allow list
var ErrOriginsRequired = errors.New("CORS_ALLOWED_ORIGINS must be set in production")

// SetupCORS configures CORS middleware with environment-specific settings
func SetupCORS(env string, origins []string) (gin.HandlerFunc, error) {
	allowOrigins, err := allowedOrigins(env, origins)
	if err != nil {
		return nil, err
	}

	cfg := cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	// wildcard origins cannot be combined with credentials
	if len(allowOrigins) == 1 && allowOrigins[0] == "*" {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowCredentials = true
	}

	return cors.New(cfg), nil
}

func allowedOrigins(env string, origins []string) ([]string, error) {
	if len(origins) > 0 {
		return origins, nil
	}

	if config.IsProduction(env) {
		return nil, ErrOriginsRequired
	}

	return []string{"*"}, nil
}

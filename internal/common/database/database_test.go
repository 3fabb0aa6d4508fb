package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_DSN(t *testing.T) {
	cfg := Config{
		Host:     "db",
		Port:     "5433",
		User:     "medi",
		Password: "secret",
		DBName:   "mediconnect",
		SSLMode:  "require",
	}

	assert.Equal(t, "host=db port=5433 user=medi password=secret dbname=mediconnect sslmode=require", cfg.DSN())
}

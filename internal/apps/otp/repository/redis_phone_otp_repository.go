package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"mediconnect-backend/internal/apps/otp/models"

	"github.com/redis/go-redis/v9"
)

const phoneOTPKeyPrefix = "otp:phone:"

// redisPhoneOTPRepository keeps records as JSON values. Keys outlive the
// code by the retention window so late verifications still see the record
// and report expiry instead of not-found.
type redisPhoneOTPRepository struct {
	client    redis.UniversalClient
	retention time.Duration
}

// NewRedisPhoneOTPRepository creates a redis-backed PhoneOTPRepository
func NewRedisPhoneOTPRepository(client redis.UniversalClient, retention time.Duration) PhoneOTPRepository {
	return &redisPhoneOTPRepository{client: client, retention: retention}
}

func phoneOTPKey(phone string) string {
	return phoneOTPKeyPrefix + phone
}

func (r *redisPhoneOTPRepository) keyTTL(otp *models.PhoneOTP) time.Duration {
	return otp.ExpiresAt.Sub(otp.IssuedAt) + r.retention
}

func (r *redisPhoneOTPRepository) Upsert(ctx context.Context, otp *models.PhoneOTP) error {
	now := time.Now()
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = now
	}
	otp.UpdatedAt = now

	data, err := encodePhoneOTP(otp)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, phoneOTPKey(otp.Phone), data, r.keyTTL(otp)).Err()
}

func (r *redisPhoneOTPRepository) FindByPhone(ctx context.Context, phone string) (*models.PhoneOTP, error) {
	data, err := r.client.Get(ctx, phoneOTPKey(phone)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodePhoneOTP(data)
}

func (r *redisPhoneOTPRepository) Update(ctx context.Context, otp *models.PhoneOTP) error {
	otp.UpdatedAt = time.Now()
	data, err := encodePhoneOTP(otp)
	if err != nil {
		return err
	}

	// XX: only overwrite an existing key, keeping its expiry
	err = r.client.SetArgs(ctx, phoneOTPKey(otp.Phone), data, redis.SetArgs{
		Mode:    "XX",
		KeepTTL: true,
	}).Err()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	return err
}

// storedPhoneOTP is the redis wire form; models.PhoneOTP hides Code from JSON.
type storedPhoneOTP struct {
	ID           string    `json:"id"`
	Phone        string    `json:"phone"`
	Code         string    `json:"code"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	AttemptCount int       `json:"attempt_count"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func encodePhoneOTP(otp *models.PhoneOTP) ([]byte, error) {
	return json.Marshal(storedPhoneOTP{
		ID:           otp.ID.String(),
		Phone:        otp.Phone,
		Code:         otp.Code,
		IssuedAt:     otp.IssuedAt,
		ExpiresAt:    otp.ExpiresAt,
		AttemptCount: otp.AttemptCount,
		Verified:     otp.Verified,
		CreatedAt:    otp.CreatedAt,
		UpdatedAt:    otp.UpdatedAt,
	})
}

func decodePhoneOTP(data []byte) (*models.PhoneOTP, error) {
	var s storedPhoneOTP
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}

	otp := &models.PhoneOTP{
		Phone:        s.Phone,
		Code:         s.Code,
		IssuedAt:     s.IssuedAt,
		ExpiresAt:    s.ExpiresAt,
		AttemptCount: s.AttemptCount,
		Verified:     s.Verified,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	if err := otp.ID.UnmarshalText([]byte(s.ID)); err != nil {
		return nil, err
	}
	return otp, nil
}

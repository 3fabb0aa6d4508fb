package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"mediconnect-backend/internal/apps/otp/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRedis answers GET and SET (EX, PX, KEEPTTL, NX, XX) from memory through a
// process hook, so the client never dials a server.
type memRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newMemRedisClient(t *testing.T) (*redis.Client, *memRedis) {
	t.Helper()
	m := &memRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(m)
	t.Cleanup(func() { _ = client.Close() })
	return client, m
}

func (m *memRedis) DialHook(next redis.DialHook) redis.DialHook { return next }

func (m *memRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (m *memRedis) ProcessHook(_ redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		args := cmd.Args()
		switch strings.ToLower(fmt.Sprint(args[0])) {
		case "get":
			v, ok := m.values[fmt.Sprint(args[1])]
			if !ok {
				cmd.SetErr(redis.Nil)
				return redis.Nil
			}
			cmd.(*redis.StringCmd).SetVal(v)
			return nil
		case "set":
			return m.set(cmd.(*redis.StatusCmd), args)
		default:
			err := fmt.Errorf("unsupported command %v", args[0])
			cmd.SetErr(err)
			return err
		}
	}
}

func (m *memRedis) set(cmd *redis.StatusCmd, args []interface{}) error {
	key := fmt.Sprint(args[1])
	var value string
	switch v := args[2].(type) {
	case []byte:
		value = string(v)
	default:
		value = fmt.Sprint(v)
	}

	var ttl time.Duration
	keepTTL, onlyIfExists, onlyIfMissing := false, false, false
	for i := 3; i < len(args); i++ {
		switch strings.ToLower(fmt.Sprint(args[i])) {
		case "keepttl":
			keepTTL = true
		case "xx":
			onlyIfExists = true
		case "nx":
			onlyIfMissing = true
		case "ex":
			i++
			ttl = time.Duration(args[i].(int64)) * time.Second
		case "px":
			i++
			ttl = time.Duration(args[i].(int64)) * time.Millisecond
		}
	}

	_, exists := m.values[key]
	if (onlyIfExists && !exists) || (onlyIfMissing && exists) {
		cmd.SetErr(redis.Nil)
		return redis.Nil
	}
	m.values[key] = value
	if !keepTTL {
		m.ttls[key] = ttl
	}
	cmd.SetVal("OK")
	return nil
}

func TestEncodeDecodePhoneOTP_KeepsCode(t *testing.T) {
	issued := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	in := &models.PhoneOTP{
		ID:           uuid.New(),
		Phone:        "9876543210",
		Code:         "482913",
		IssuedAt:     issued,
		ExpiresAt:    issued.Add(10 * time.Minute),
		AttemptCount: 2,
	}

	data, err := encodePhoneOTP(in)
	require.NoError(t, err)

	out, err := decodePhoneOTP(data)
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, "482913", out.Code)
	assert.Equal(t, 2, out.AttemptCount)
	assert.True(t, in.ExpiresAt.Equal(out.ExpiresAt))
}

func TestRedisRepository_KeyTTLIncludesRetention(t *testing.T) {
	r := &redisPhoneOTPRepository{retention: time.Hour}
	issued := time.Unix(0, 0)
	otp := &models.PhoneOTP{IssuedAt: issued, ExpiresAt: issued.Add(10 * time.Minute)}

	assert.Equal(t, 70*time.Minute, r.keyTTL(otp))
	assert.Equal(t, "otp:phone:9876543210", phoneOTPKey("9876543210"))
}

func newRedisOTP(phone string, issued time.Time, code string) *models.PhoneOTP {
	return &models.PhoneOTP{
		ID:        uuid.New(),
		Phone:     phone,
		Code:      code,
		IssuedAt:  issued,
		ExpiresAt: issued.Add(10 * time.Minute),
	}
}

func TestRedisRepository_UpsertOverwritesAndSetsTTL(t *testing.T) {
	client, mem := newMemRedisClient(t)
	repo := NewRedisPhoneOTPRepository(client, time.Hour)
	ctx := context.Background()
	issued := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	first := newRedisOTP("9876543210", issued, "111111")
	first.AttemptCount = 3
	require.NoError(t, repo.Upsert(ctx, first))
	assert.Equal(t, 70*time.Minute, mem.ttls["otp:phone:9876543210"])

	second := newRedisOTP("9876543210", issued.Add(time.Minute), "222222")
	require.NoError(t, repo.Upsert(ctx, second))

	got, err := repo.FindByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, "222222", got.Code)
	assert.Equal(t, 0, got.AttemptCount)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRedisRepository_UpdateKeepsTTL(t *testing.T) {
	client, mem := newMemRedisClient(t)
	repo := NewRedisPhoneOTPRepository(client, 30*time.Minute)
	ctx := context.Background()

	otp := newRedisOTP("9876543210", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), "482913")
	require.NoError(t, repo.Upsert(ctx, otp))

	otp.AttemptCount = 1
	otp.Verified = true
	require.NoError(t, repo.Update(ctx, otp))

	got, err := repo.FindByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, 1, got.AttemptCount)
	assert.True(t, got.Verified)
	assert.Equal(t, 40*time.Minute, mem.ttls["otp:phone:9876543210"])
}

func TestRedisRepository_MissingKeyIsNotFound(t *testing.T) {
	client, mem := newMemRedisClient(t)
	repo := NewRedisPhoneOTPRepository(client, time.Hour)
	ctx := context.Background()

	_, err := repo.FindByPhone(ctx, "9876543210")
	assert.ErrorIs(t, err, ErrNotFound)

	otp := newRedisOTP("9876543210", time.Now(), "482913")
	assert.ErrorIs(t, repo.Update(ctx, otp), ErrNotFound)
	assert.Empty(t, mem.values, "update must not create a record")
}

package repository

import (
	"context"
	"errors"
	"time"

	"mediconnect-backend/internal/apps/otp/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no record exists for a phone number
var ErrNotFound = errors.New("otp record not found")

// PhoneOTPRepository defines data operations for Phone OTP.
// Writes are last-write-wins per phone number.
type PhoneOTPRepository interface {
	Upsert(ctx context.Context, otp *models.PhoneOTP) error
	FindByPhone(ctx context.Context, phone string) (*models.PhoneOTP, error)
	Update(ctx context.Context, otp *models.PhoneOTP) error
}

// phoneOTPRepository implements PhoneOTPRepository on postgres
type phoneOTPRepository struct {
	db *gorm.DB
}

// NewPhoneOTPRepository creates an instance of PhoneOTPRepository
func NewPhoneOTPRepository(db *gorm.DB) PhoneOTPRepository {
	return &phoneOTPRepository{db: db}
}

// Upsert creates or overwrites the OTP for a phone number
func (r *phoneOTPRepository) Upsert(ctx context.Context, otp *models.PhoneOTP) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"code", "issued_at", "expires_at", "attempt_count", "verified", "updated_at",
		}),
	}).Create(otp).Error
}

// FindByPhone retrieves OTP by phone number
func (r *phoneOTPRepository) FindByPhone(ctx context.Context, phone string) (*models.PhoneOTP, error) {
	var otp models.PhoneOTP
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&otp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &otp, nil
}

// Update persists attempt count and verification flag
func (r *phoneOTPRepository) Update(ctx context.Context, otp *models.PhoneOTP) error {
	res := r.db.WithContext(ctx).
		Model(&models.PhoneOTP{}).
		Where("phone = ?", otp.Phone).
		Updates(map[string]interface{}{
			"attempt_count": otp.AttemptCount,
			"verified":      otp.Verified,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}


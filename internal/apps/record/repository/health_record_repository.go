package repository

import (
	"context"

	"mediconnect-backend/internal/apps/record/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HealthRecordRepository defines the interface for health record data operations
type HealthRecordRepository interface {
	Create(ctx context.Context, record *models.HealthRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.HealthRecord, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, category string) ([]models.HealthRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type healthRecordRepository struct {
	db *gorm.DB
}

// NewHealthRecordRepository creates a new instance of HealthRecordRepository
func NewHealthRecordRepository(db *gorm.DB) HealthRecordRepository {
	return &healthRecordRepository{db: db}
}

func (r *healthRecordRepository) Create(ctx context.Context, record *models.HealthRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *healthRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.HealthRecord, error) {
	var record models.HealthRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByUserID lists a user's records newest first, optionally filtered by category
func (r *healthRecordRepository) FindByUserID(ctx context.Context, userID uuid.UUID, category string) ([]models.HealthRecord, error) {
	var records []models.HealthRecord
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Order("record_date DESC, created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Delete soft-deletes a record
func (r *healthRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.HealthRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

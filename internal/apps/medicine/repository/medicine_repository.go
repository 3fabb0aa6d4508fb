package repository

import (
	"context"

	"mediconnect-backend/internal/apps/medicine/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MedicineRepository defines the interface for medicine data operations
type MedicineRepository interface {
	Create(ctx context.Context, medicine *models.Medicine) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Medicine, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, category string) ([]models.Medicine, error)
	Update(ctx context.Context, medicine *models.Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// medicineRepository implements MedicineRepository
type medicineRepository struct {
	db *gorm.DB
}

// NewMedicineRepository creates a new instance of MedicineRepository
func NewMedicineRepository(db *gorm.DB) MedicineRepository {
	return &medicineRepository{db: db}
}

// Create creates a new medicine in the database
func (r *medicineRepository) Create(ctx context.Context, medicine *models.Medicine) error {
	return r.db.WithContext(ctx).Create(medicine).Error
}

// FindByID retrieves a medicine by its ID
func (r *medicineRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Medicine, error) {
	var medicine models.Medicine
	if err := r.db.WithContext(ctx).First(&medicine, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &medicine, nil
}

// FindByUserID retrieves a user's medicines, optionally filtered by category
func (r *medicineRepository) FindByUserID(ctx context.Context, userID uuid.UUID, category string) ([]models.Medicine, error) {
	var medicines []models.Medicine
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Order("created_at DESC").Find(&medicines).Error; err != nil {
		return nil, err
	}
	return medicines, nil
}

// Update updates an existing medicine
func (r *medicineRepository) Update(ctx context.Context, medicine *models.Medicine) error {
	return r.db.WithContext(ctx).Save(medicine).Error
}

// Delete soft-deletes a medicine
func (r *medicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Medicine{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package repository

import (
	"context"

	"mediconnect-backend/internal/apps/dietplan/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseRepository defines the interface for plan purchase data operations
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.PlanPurchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.PlanPurchase, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.PlanPurchase, error)
	Update(ctx context.Context, purchase *models.PlanPurchase) error
}

// purchaseRepository implements PurchaseRepository interface
type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new instance of PurchaseRepository
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

// Create creates a new purchase in the database
func (r *purchaseRepository) Create(ctx context.Context, purchase *models.PlanPurchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

// FindByID retrieves a purchase by its ID
func (r *purchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.PlanPurchase, error) {
	var purchase models.PlanPurchase
	err := r.db.WithContext(ctx).First(&purchase, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// FindByOrderID retrieves a purchase by Razorpay order ID
func (r *purchaseRepository) FindByOrderID(ctx context.Context, orderID string) (*models.PlanPurchase, error) {
	var purchase models.PlanPurchase
	err := r.db.WithContext(ctx).Where("gateway_order_id = ?", orderID).First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// Update updates an existing purchase
func (r *purchaseRepository) Update(ctx context.Context, purchase *models.PlanPurchase) error {
	return r.db.WithContext(ctx).Save(purchase).Error
}

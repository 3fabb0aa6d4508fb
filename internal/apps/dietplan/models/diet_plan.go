package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DietPlan is a catalog entry. Price is in minor units of Currency.
type DietPlan struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	IsPremium   bool     `json:"is_premium"`
	Price       int64    `json:"price"`
	Currency    string   `json:"currency"`
	Benefits    []string `json:"benefits,omitempty"`
}

// Catalog is the fixed list of plans offered in the app
var Catalog = []DietPlan{
	{
		ID:          "basic-healthy",
		Title:       "Basic Healthy Diet",
		Description: "General healthy eating guidelines with basic meal plans",
	},
	{
		ID:          "premium-weight-loss",
		Title:       "Premium Weight Loss Plan",
		Description: "Personalized weight loss diet with detailed meal plans",
		IsPremium:   true,
		Price:       2999,
		Currency:    "USD",
		Benefits: []string{
			"Personalized meal plans",
			"Weekly shopping lists",
			"Recipe alternatives",
			"Nutritionist support",
		},
	},
	{
		ID:          "premium-diabetic",
		Title:       "Premium Diabetic Diet",
		Description: "Specialized diet plan for managing diabetes",
		IsPremium:   true,
		Price:       3999,
		Currency:    "USD",
		Benefits: []string{
			"Blood sugar optimized meals",
			"Carb counting guides",
			"Diabetes-friendly recipes",
			"Expert consultation",
		},
	},
}

// PurchaseStatus represents the payment state of a plan purchase
type PurchaseStatus string

const (
	PurchaseStatusCreated PurchaseStatus = "created"
	PurchaseStatusPaid    PurchaseStatus = "paid"
	PurchaseStatusFailed  PurchaseStatus = "failed"
)

// PlanPurchase tracks a Razorpay order for a premium plan
type PlanPurchase struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	PlanID           string         `gorm:"not null;size:64;index" json:"plan_id"`
	GatewayOrderID   string         `gorm:"size:100;uniqueIndex" json:"gateway_order_id"`
	GatewayPaymentID *string        `gorm:"size:100" json:"gateway_payment_id,omitempty"`
	Status           PurchaseStatus `gorm:"type:varchar(20);default:'created';index" json:"status"`
	Amount           int64          `gorm:"not null" json:"amount"`
	Currency         string         `gorm:"size:10;not null" json:"currency"`
	PaidAt           *time.Time     `json:"paid_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate UUID before creating record
func (p *PlanPurchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PurchaseRequest starts checkout for a premium plan
type PurchaseRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// VerifyPaymentRequest carries the fields returned by Razorpay checkout
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// PurchaseResponse represents the response payload for purchase operations.
// KeyID and Environment are set when checkout starts.
type PurchaseResponse struct {
	ID               uuid.UUID      `json:"id"`
	UserID           uuid.UUID      `json:"user_id"`
	PlanID           string         `json:"plan_id"`
	GatewayOrderID   string         `json:"gateway_order_id"`
	GatewayPaymentID *string        `json:"gateway_payment_id,omitempty"`
	Status           PurchaseStatus `json:"status"`
	Amount           int64          `json:"amount"`
	Currency         string         `json:"currency"`
	PaidAt           *time.Time     `json:"paid_at,omitempty"`
	KeyID            string         `json:"key_id,omitempty"`
	Environment      string         `json:"environment,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// ToResponse converts PlanPurchase model to PurchaseResponse
func (p *PlanPurchase) ToResponse() PurchaseResponse {
	return PurchaseResponse{
		ID:               p.ID,
		UserID:           p.UserID,
		PlanID:           p.PlanID,
		GatewayOrderID:   p.GatewayOrderID,
		GatewayPaymentID: p.GatewayPaymentID,
		Status:           p.Status,
		Amount:           p.Amount,
		Currency:         p.Currency,
		PaidAt:           p.PaidAt,
		CreatedAt:        p.CreatedAt,
	}
}

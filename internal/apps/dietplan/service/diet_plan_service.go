package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mediconnect-backend/internal/apps/dietplan/models"
	"mediconnect-backend/internal/apps/dietplan/repository"
	userRepository "mediconnect-backend/internal/apps/user/repository"
	"mediconnect-backend/internal/common/clock"
	"mediconnect-backend/pkg/utils"

	"github.com/google/uuid"
	razorpayUtils "github.com/razorpay/razorpay-go/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrPlanNotFound is returned for unknown plan ids
	ErrPlanNotFound = errors.New("diet plan not found")
	// ErrFreePlan is returned when purchasing a plan that costs nothing
	ErrFreePlan = errors.New("diet plan is free and cannot be purchased")
	// ErrPurchaseNotFound is returned when no purchase matches
	ErrPurchaseNotFound = errors.New("purchase not found")
	// ErrUserNotFound is returned when the buyer does not exist
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidSignature is returned when a payment or webhook signature does not match
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrPaymentsDisabled is returned when no payment gateway is configured
	ErrPaymentsDisabled = errors.New("payments are not configured")
)

// DietPlanService defines the interface for diet plan business logic
type DietPlanService interface {
	ListPlans(ctx context.Context) []models.DietPlan
	GetPlan(ctx context.Context, id string) (*models.DietPlan, error)
	Purchase(ctx context.Context, planID string, req models.PurchaseRequest) (*models.PurchaseResponse, error)
	VerifyPayment(ctx context.Context, req models.VerifyPaymentRequest) (*models.PurchaseResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	GetPurchase(ctx context.Context, id uuid.UUID) (*models.PurchaseResponse, error)
}

// Options configures a DietPlanService. A nil Gateway disables purchases.
type Options struct {
	Gateway       OrderGateway
	KeyID         string
	KeySecret     string
	WebhookSecret string
	AppEnv        string
	Clock         clock.Clock
	Logger        *zap.Logger
}

// dietPlanService implements DietPlanService interface
type dietPlanService struct {
	repo     repository.PurchaseRepository
	userRepo userRepository.UserRepository
	opts     Options
	clock    clock.Clock
	logger   *zap.Logger
}

// NewDietPlanService creates a new instance of DietPlanService
func NewDietPlanService(repo repository.PurchaseRepository, userRepo userRepository.UserRepository, opts Options) DietPlanService {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &dietPlanService{
		repo:     repo,
		userRepo: userRepo,
		opts:     opts,
		clock:    clk,
		logger:   logger,
	}
}

// ListPlans returns the catalog
func (s *dietPlanService) ListPlans(_ context.Context) []models.DietPlan {
	plans := make([]models.DietPlan, len(models.Catalog))
	copy(plans, models.Catalog)
	return plans
}

// GetPlan returns one catalog entry
func (s *dietPlanService) GetPlan(_ context.Context, id string) (*models.DietPlan, error) {
	for i := range models.Catalog {
		if models.Catalog[i].ID == id {
			plan := models.Catalog[i]
			return &plan, nil
		}
	}
	return nil, ErrPlanNotFound
}

// Purchase creates a Razorpay order for a premium plan and records it
func (s *dietPlanService) Purchase(ctx context.Context, planID string, req models.PurchaseRequest) (*models.PurchaseResponse, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.IsPremium || plan.Price <= 0 {
		return nil, ErrFreePlan
	}
	if s.opts.Gateway == nil {
		return nil, ErrPaymentsDisabled
	}

	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	purchase := &models.PlanPurchase{
		ID:       uuid.New(),
		UserID:   req.UserID,
		PlanID:   plan.ID,
		Status:   models.PurchaseStatusCreated,
		Amount:   plan.Price,
		Currency: plan.Currency,
	}

	notes := map[string]interface{}{
		"plan_id": plan.ID,
		"user_id": req.UserID.String(),
	}
	orderID, err := s.opts.Gateway.CreateOrder(plan.Price, plan.Currency, purchase.ID.String(), notes)
	if err != nil {
		return nil, err
	}
	purchase.GatewayOrderID = orderID

	if err := s.repo.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to save purchase: %w", err)
	}

	s.logger.Info("diet plan order created",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("plan_id", plan.ID),
		zap.String("order_id", orderID))

	resp := purchase.ToResponse()
	resp.KeyID = s.opts.KeyID
	resp.Environment = utils.PaymentEnvironment(s.opts.AppEnv)
	return &resp, nil
}

// VerifyPayment checks the checkout signature and marks the purchase paid
func (s *dietPlanService) VerifyPayment(ctx context.Context, req models.VerifyPaymentRequest) (*models.PurchaseResponse, error) {
	params := map[string]interface{}{
		"razorpay_order_id":   req.RazorpayOrderID,
		"razorpay_payment_id": req.RazorpayPaymentID,
	}
	if !verifyPaymentSignature(s.opts.KeySecret, params, req.RazorpaySignature) {
		return nil, ErrInvalidSignature
	}

	purchase, err := s.findByOrder(ctx, req.RazorpayOrderID)
	if err != nil {
		return nil, err
	}

	if err := s.markPaid(ctx, purchase, req.RazorpayPaymentID); err != nil {
		return nil, err
	}
	resp := purchase.ToResponse()
	return &resp, nil
}

// webhookEvent is the subset of a Razorpay webhook body we read
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
		Order *struct {
			Entity struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

// HandleWebhook handles Razorpay payment and order events
func (s *dietPlanService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !verifyWebhookSignature(s.opts.WebhookSecret, payload, signature) {
		s.logger.Warn("webhook signature verification failed")
		return ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	var orderID, paymentID string
	if p := event.Payload.Payment; p != nil {
		orderID, paymentID = p.Entity.OrderID, p.Entity.ID
	}
	if o := event.Payload.Order; o != nil && o.Entity.ID != "" {
		orderID = o.Entity.ID
	}
	s.logger.Info("webhook event received", zap.String("event", event.Event), zap.String("order_id", orderID))

	switch event.Event {
	case "payment.captured", "order.paid", "payment.failed":
	default:
		// Unknown event types are acknowledged without action
		return nil
	}
	if orderID == "" {
		return nil
	}

	purchase, err := s.findByOrder(ctx, orderID)
	if errors.Is(err, ErrPurchaseNotFound) {
		s.logger.Warn("webhook for unknown order", zap.String("order_id", orderID))
		return nil
	}
	if err != nil {
		return err
	}

	if event.Event == "payment.failed" {
		if purchase.Status == models.PurchaseStatusPaid {
			return nil
		}
		purchase.Status = models.PurchaseStatusFailed
		if paymentID != "" {
			purchase.GatewayPaymentID = &paymentID
		}
		return s.repo.Update(ctx, purchase)
	}
	return s.markPaid(ctx, purchase, paymentID)
}

// GetPurchase retrieves a purchase by its ID
func (s *dietPlanService) GetPurchase(ctx context.Context, id uuid.UUID) (*models.PurchaseResponse, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	resp := purchase.ToResponse()
	return &resp, nil
}

func (s *dietPlanService) findByOrder(ctx context.Context, orderID string) (*models.PlanPurchase, error) {
	purchase, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	return purchase, nil
}

// markPaid is idempotent: a purchase already paid is left untouched
func (s *dietPlanService) markPaid(ctx context.Context, purchase *models.PlanPurchase, paymentID string) error {
	if purchase.Status == models.PurchaseStatusPaid {
		return nil
	}
	now := s.clock.Now()
	purchase.Status = models.PurchaseStatusPaid
	purchase.PaidAt = &now
	if paymentID != "" {
		purchase.GatewayPaymentID = &paymentID
	}
	return s.repo.Update(ctx, purchase)
}

// verifyPaymentSignature checks the checkout signature over order_id|payment_id.
// An unset secret never verifies.
func verifyPaymentSignature(secret string, params map[string]interface{}, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return razorpayUtils.VerifyPaymentSignature(params, signature, secret)
}

// verifyWebhookSignature checks X-Razorpay-Signature over the raw body
func verifyWebhookSignature(secret string, payload []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return razorpayUtils.VerifyWebhookSignature(string(payload), signature, secret)
}

package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"mediconnect-backend/internal/apps/dietplan/models"
	userModels "mediconnect-backend/internal/apps/user/models"
	userRepository "mediconnect-backend/internal/apps/user/repository"
	"mediconnect-backend/internal/common/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	keySecret     = "rzp_secret"
	webhookSecret = "whsec"
)

type fakeGateway struct {
	orders   int
	amount   int64
	currency string
	receipt  string
	err      error
}

func (g *fakeGateway) CreateOrder(amount int64, currency, receipt string, _ map[string]interface{}) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.orders++
	g.amount, g.currency, g.receipt = amount, currency, receipt
	return fmt.Sprintf("order_%d", g.orders), nil
}

type memPurchaseRepo struct {
	byID map[uuid.UUID]*models.PlanPurchase
}

func (r *memPurchaseRepo) Create(_ context.Context, p *models.PlanPurchase) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *memPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*models.PlanPurchase, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPurchaseRepo) FindByOrderID(_ context.Context, orderID string) (*models.PlanPurchase, error) {
	for _, p := range r.byID {
		if p.GatewayOrderID == orderID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memPurchaseRepo) Update(_ context.Context, p *models.PlanPurchase) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

type knownUsers struct {
	userRepository.UserRepository
	id uuid.UUID
}

func (k knownUsers) FindByID(_ context.Context, id uuid.UUID) (*userModels.User, error) {
	if id != k.id {
		return nil, gorm.ErrRecordNotFound
	}
	return &userModels.User{ID: id}, nil
}

func sign(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

type planFixture struct {
	svc     DietPlanService
	gateway *fakeGateway
	repo    *memPurchaseRepo
	userID  uuid.UUID
	clock   *clock.Mock
}

func newPlanFixture() *planFixture {
	f := &planFixture{
		gateway: &fakeGateway{},
		repo:    &memPurchaseRepo{byID: make(map[uuid.UUID]*models.PlanPurchase)},
		userID:  uuid.New(),
		clock:   clock.NewMock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)),
	}
	f.svc = NewDietPlanService(f.repo, knownUsers{id: f.userID}, Options{
		Gateway:       f.gateway,
		KeyID:         "rzp_test_key",
		KeySecret:     keySecret,
		WebhookSecret: webhookSecret,
		AppEnv:        "local",
		Clock:         f.clock,
	})
	return f
}

func TestListAndGetPlans(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()

	plans := f.svc.ListPlans(ctx)
	require.Len(t, plans, 3)
	assert.False(t, plans[0].IsPremium)

	plan, err := f.svc.GetPlan(ctx, "premium-diabetic")
	require.NoError(t, err)
	assert.Equal(t, int64(3999), plan.Price)

	_, err = f.svc.GetPlan(ctx, "keto")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestPurchase_CreatesOrder(t *testing.T) {
	f := newPlanFixture()

	resp, err := f.svc.Purchase(context.Background(), "premium-weight-loss", models.PurchaseRequest{UserID: f.userID})
	require.NoError(t, err)

	assert.Equal(t, "order_1", resp.GatewayOrderID)
	assert.Equal(t, models.PurchaseStatusCreated, resp.Status)
	assert.Equal(t, int64(2999), resp.Amount)
	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, "rzp_test_key", resp.KeyID)
	assert.Equal(t, "test", resp.Environment)
	assert.Equal(t, resp.ID.String(), f.gateway.receipt)
	assert.Len(t, f.repo.byID, 1)
}

func TestPurchase_Rejections(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()

	_, err := f.svc.Purchase(ctx, "basic-healthy", models.PurchaseRequest{UserID: f.userID})
	assert.ErrorIs(t, err, ErrFreePlan)

	_, err = f.svc.Purchase(ctx, "nope", models.PurchaseRequest{UserID: f.userID})
	assert.ErrorIs(t, err, ErrPlanNotFound)

	_, err = f.svc.Purchase(ctx, "premium-diabetic", models.PurchaseRequest{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrUserNotFound)

	f.gateway.err = errors.New("gateway down")
	_, err = f.svc.Purchase(ctx, "premium-diabetic", models.PurchaseRequest{UserID: f.userID})
	assert.Error(t, err)
	assert.Empty(t, f.repo.byID)

	disabled := NewDietPlanService(f.repo, knownUsers{id: f.userID}, Options{})
	_, err = disabled.Purchase(ctx, "premium-diabetic", models.PurchaseRequest{UserID: f.userID})
	assert.ErrorIs(t, err, ErrPaymentsDisabled)
}

func TestVerifyPayment(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()
	created, err := f.svc.Purchase(ctx, "premium-diabetic", models.PurchaseRequest{UserID: f.userID})
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment(ctx, models.VerifyPaymentRequest{
		RazorpayOrderID:   created.GatewayOrderID,
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: "deadbeef",
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)

	resp, err := f.svc.VerifyPayment(ctx, models.VerifyPaymentRequest{
		RazorpayOrderID:   created.GatewayOrderID,
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: sign(keySecret, created.GatewayOrderID+"|pay_1"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusPaid, resp.Status)
	require.NotNil(t, resp.GatewayPaymentID)
	assert.Equal(t, "pay_1", *resp.GatewayPaymentID)
	require.NotNil(t, resp.PaidAt)
	assert.Equal(t, f.clock.Now(), *resp.PaidAt)

	_, err = f.svc.VerifyPayment(ctx, models.VerifyPaymentRequest{
		RazorpayOrderID:   "order_missing",
		RazorpayPaymentID: "pay_2",
		RazorpaySignature: sign(keySecret, "order_missing|pay_2"),
	})
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
}

func TestHandleWebhook(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()
	created, _ := f.svc.Purchase(ctx, "premium-diabetic", models.PurchaseRequest{UserID: f.userID})

	failed := fmt.Sprintf(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_x","order_id":"%s","status":"failed"}}}}`, created.GatewayOrderID)
	assert.ErrorIs(t, f.svc.HandleWebhook(ctx, []byte(failed), "bad"), ErrInvalidSignature)

	require.NoError(t, f.svc.HandleWebhook(ctx, []byte(failed), sign(webhookSecret, failed)))
	got, _ := f.svc.GetPurchase(ctx, created.ID)
	assert.Equal(t, models.PurchaseStatusFailed, got.Status)

	captured := fmt.Sprintf(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_y","order_id":"%s","status":"captured"}}}}`, created.GatewayOrderID)
	require.NoError(t, f.svc.HandleWebhook(ctx, []byte(captured), sign(webhookSecret, captured)))
	got, _ = f.svc.GetPurchase(ctx, created.ID)
	assert.Equal(t, models.PurchaseStatusPaid, got.Status)
	assert.Equal(t, "pay_y", *got.GatewayPaymentID)

	// a late failure never downgrades a paid purchase
	require.NoError(t, f.svc.HandleWebhook(ctx, []byte(failed), sign(webhookSecret, failed)))
	got, _ = f.svc.GetPurchase(ctx, created.ID)
	assert.Equal(t, models.PurchaseStatusPaid, got.Status)

	unknown := `{"event":"refund.created","payload":{}}`
	assert.NoError(t, f.svc.HandleWebhook(ctx, []byte(unknown), sign(webhookSecret, unknown)))

	stray := `{"event":"order.paid","payload":{"order":{"entity":{"id":"order_zzz","status":"paid"}}}}`
	assert.NoError(t, f.svc.HandleWebhook(ctx, []byte(stray), sign(webhookSecret, stray)))
}

func TestGetPurchase_NotFound(t *testing.T) {
	f := newPlanFixture()
	_, err := f.svc.GetPurchase(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
}

func TestSignatureChecks_UnsetSecretNeverVerifies(t *testing.T) {
	params := map[string]interface{}{
		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_1",
	}
	// the empty-key HMAC is a valid signature for an unset secret, and must still fail
	assert.False(t, verifyPaymentSignature("", params, sign("", "order_1|pay_1")))
	assert.True(t, verifyPaymentSignature(keySecret, params, sign(keySecret, "order_1|pay_1")))

	body := []byte(`{"event":"order.paid"}`)
	assert.False(t, verifyWebhookSignature("", body, sign("", string(body))))
	assert.False(t, verifyWebhookSignature(webhookSecret, body, ""))
	assert.True(t, verifyWebhookSignature(webhookSecret, body, sign(webhookSecret, string(body))))
}

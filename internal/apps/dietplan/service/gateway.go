package service

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// OrderGateway creates payment orders with the payment provider
type OrderGateway interface {
	CreateOrder(amount int64, currency, receipt string, notes map[string]interface{}) (string, error)
}

// razorpayGateway implements OrderGateway with the Razorpay Orders API
type razorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway creates an OrderGateway backed by razorpay-go
func NewRazorpayGateway(keyID, keySecret string) OrderGateway {
	return &razorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *razorpayGateway) CreateOrder(amount int64, currency, receipt string, notes map[string]interface{}) (string, error) {
	orderData := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		orderData["notes"] = notes
	}

	order, err := g.client.Order.Create(orderData, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create razorpay order: %w", err)
	}
	id, ok := order["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("razorpay order response missing id")
	}
	return id, nil
}

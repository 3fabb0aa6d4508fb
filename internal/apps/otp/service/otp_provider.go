package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"mediconnect-backend/internal/common/logging"

	"go.uber.org/zap"
)

// OTPProvider delivers a message to a phone number. Delivery is a single
// call; callers do not wait on handset receipt.
type OTPProvider interface {
	Send(ctx context.Context, phone, body string) error
}

// noOpProvider skips OTP sending (for local environment)
type noOpProvider struct {
	logger *zap.Logger
}

// NewNoOpProvider creates a no-op OTP provider
func NewNoOpProvider(logger *zap.Logger) OTPProvider {
	return &noOpProvider{logger: logger}
}

func (n *noOpProvider) Send(_ context.Context, phone, _ string) error {
	n.logger.Info("skipping sms delivery", zap.String("phone", logging.MaskPhone(phone)))
	return nil
}

const authKeyBaseURL = "https://api.authkey.io/request"

// authKeyProvider sends OTP via AuthKey.io API
type authKeyProvider struct {
	authKey     string
	templateID  string
	countryCode string
	baseURL     string
	client      *http.Client
	logger      *zap.Logger
}

// NewAuthKeyProvider creates an AuthKey.io OTP provider for Indian numbers
func NewAuthKeyProvider(authKey, templateID string, client *http.Client, logger *zap.Logger) OTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &authKeyProvider{
		authKey:     authKey,
		templateID:  templateID,
		countryCode: "91",
		baseURL:     authKeyBaseURL,
		client:      client,
		logger:      logger,
	}
}

func (a *authKeyProvider) Send(ctx context.Context, phone, body string) error {
	params := url.Values{}
	params.Add("authkey", a.authKey)
	params.Add("mobile", phone)
	params.Add("country_code", a.countryCode)
	params.Add("sms", body)
	if a.templateID != "" {
		params.Add("sid", a.templateID)
	}

	reqURL := fmt.Sprintf("%s?%s", a.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send OTP via AuthKey: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("AuthKey API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	a.logger.Info("sent otp sms", zap.String("phone", logging.MaskPhone(phone)))
	return nil
}

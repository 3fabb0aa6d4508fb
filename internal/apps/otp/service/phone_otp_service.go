package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"mediconnect-backend/internal/apps/otp/models"
	"mediconnect-backend/internal/apps/otp/repository"
	"mediconnect-backend/internal/common/clock"
	"mediconnect-backend/internal/common/logging"
	"mediconnect-backend/pkg/secure"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTTL is how long an issued code stays valid
const DefaultTTL = 10 * time.Minute

// MobileVerifier is notified when a user proves possession of a phone
type MobileVerifier interface {
	MarkMobileVerified(ctx context.Context, userID uuid.UUID, phone string) error
}

// PhoneOTPService defines business logic for Phone OTP
type PhoneOTPService interface {
	Issue(ctx context.Context, req models.IssuePhoneOTPRequest) (*models.IssuePhoneOTPResponse, error)
	Resend(ctx context.Context, req models.IssuePhoneOTPRequest) (*models.IssuePhoneOTPResponse, error)
	Verify(ctx context.Context, req models.VerifyPhoneOTPRequest) (*models.VerifyPhoneOTPResponse, error)
	Status(ctx context.Context, phone string) (*models.PhoneOTPStatusResponse, error)
	StartCountdown(ctx context.Context, phone string, onTick func(remaining int), onDone func()) (*Countdown, error)
}

// Options configures a PhoneOTPService. Zero values fall back to defaults.
type Options struct {
	TTL time.Duration
	// MaxAttempts of 0 means verification is never locked out
	MaxAttempts  int
	DiscloseCode bool
	Cipher       *secure.Cipher
	Clock        clock.Clock
	Generate     CodeGenerator
	Verifier     MobileVerifier
	Logger       *zap.Logger
}

// phoneOTPService implements PhoneOTPService
type phoneOTPService struct {
	repo         repository.PhoneOTPRepository
	otpProvider  OTPProvider
	ttl          time.Duration
	maxAttempts  int
	discloseCode bool
	cipher       *secure.Cipher
	clock        clock.Clock
	generate     CodeGenerator
	verifier     MobileVerifier
	logger       *zap.Logger
}

// NewPhoneOTPService creates a new instance of PhoneOTPService
func NewPhoneOTPService(repo repository.PhoneOTPRepository, provider OTPProvider, opts Options) PhoneOTPService {
	s := &phoneOTPService{
		repo:         repo,
		otpProvider:  provider,
		ttl:          opts.TTL,
		maxAttempts:  opts.MaxAttempts,
		discloseCode: opts.DiscloseCode,
		cipher:       opts.Cipher,
		clock:        opts.Clock,
		generate:     opts.Generate,
		verifier:     opts.Verifier,
		logger:       opts.Logger,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.generate == nil {
		s.generate = RandomCode
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func (s *phoneOTPService) messageBody(code string) string {
	return fmt.Sprintf("Your MediConnect verification code is %s. It expires in %d minutes.", code, int(s.ttl.Minutes()))
}

// Issue creates or overwrites the code for a phone number and sends it.
// A delivery failure is returned as *DeliveryError alongside a valid response.
func (s *phoneOTPService) Issue(ctx context.Context, req models.IssuePhoneOTPRequest) (*models.IssuePhoneOTPResponse, error) {
	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	code, err := s.generate()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	stored, err := s.cipher.EncryptString(code)
	if err != nil {
		return nil, fmt.Errorf("encrypt otp: %w", err)
	}

	now := s.clock.Now()
	otp := &models.PhoneOTP{
		ID:        uuid.New(),
		Phone:     phone,
		Code:      stored,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Upsert(ctx, otp); err != nil {
		return nil, err
	}

	resp := &models.IssuePhoneOTPResponse{
		Phone:     phone,
		IssuedAt:  otp.IssuedAt,
		ExpiresAt: otp.ExpiresAt,
		ExpiresIn: otp.RemainingSeconds(now),
	}
	if s.discloseCode {
		resp.Code = code
	}

	if err := s.otpProvider.Send(ctx, phone, s.messageBody(code)); err != nil {
		s.logger.Warn("otp delivery failed",
			zap.String("phone", logging.MaskPhone(phone)),
			zap.Error(err))
		return resp, &DeliveryError{Err: err}
	}

	s.logger.Info("otp issued",
		zap.String("phone", logging.MaskPhone(phone)),
		zap.Time("expires_at", otp.ExpiresAt))
	return resp, nil
}

// Resend issues a fresh code once the previous one expired or was used
func (s *phoneOTPService) Resend(ctx context.Context, req models.IssuePhoneOTPRequest) (*models.IssuePhoneOTPResponse, error) {
	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByPhone(ctx, phone)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return nil, err
	case !existing.CanResend(s.clock.Now()):
		return nil, fmt.Errorf("%w (%d seconds remaining)", ErrResendTooSoon, existing.RemainingSeconds(s.clock.Now()))
	}

	return s.Issue(ctx, models.IssuePhoneOTPRequest{Phone: phone})
}

// Verify checks a submitted code against the stored record
func (s *phoneOTPService) Verify(ctx context.Context, req models.VerifyPhoneOTPRequest) (*models.VerifyPhoneOTPResponse, error) {
	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	otp, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// expiry wins over every other outcome, even for a used code
	if otp.IsExpired(s.clock.Now()) {
		return nil, ErrExpired
	}
	if otp.Verified {
		return nil, ErrAlreadyVerified
	}
	if s.maxAttempts > 0 && otp.AttemptCount >= s.maxAttempts {
		return nil, ErrTooManyAttempts
	}

	expected, err := s.cipher.DecryptString(otp.Code)
	if err != nil {
		return nil, fmt.Errorf("decrypt otp: %w", err)
	}

	otp.AttemptCount++
	match := subtle.ConstantTimeCompare([]byte(req.Code), []byte(expected)) == 1

	// the user is marked first so a failure leaves the code usable for a retry
	var markErr error
	if match && req.UserID != nil && s.verifier != nil {
		markErr = s.verifier.MarkMobileVerified(ctx, *req.UserID, phone)
	}
	otp.Verified = match && markErr == nil
	if err := s.repo.Update(ctx, otp); err != nil {
		return nil, err
	}
	if markErr != nil {
		s.logger.Error("failed to mark mobile verified",
			zap.String("phone", logging.MaskPhone(phone)), zap.Error(markErr))
		return nil, fmt.Errorf("mark mobile verified: %w", markErr)
	}

	resp := &models.VerifyPhoneOTPResponse{
		Verified:     match,
		AttemptCount: otp.AttemptCount,
	}
	if !match {
		resp.Message = "Invalid OTP"
		s.logger.Info("otp mismatch",
			zap.String("phone", logging.MaskPhone(phone)),
			zap.Int("attempt", otp.AttemptCount))
		return resp, ErrMismatch
	}

	resp.Message = "OTP verified successfully"
	s.logger.Info("otp verified", zap.String("phone", logging.MaskPhone(phone)))
	return resp, nil
}

// Status reports the countdown state for a phone number
func (s *phoneOTPService) Status(ctx context.Context, phone string) (*models.PhoneOTPStatusResponse, error) {
	phone, err := normalizePhone(phone)
	if err != nil {
		return nil, err
	}

	otp, err := s.repo.FindByPhone(ctx, phone)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.PhoneOTPStatusResponse{
			Phone:     phone,
			State:     models.OTPStateNone,
			CanResend: true,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	state := otp.State(now)
	expiresAt := otp.ExpiresAt
	resp := &models.PhoneOTPStatusResponse{
		Phone:        phone,
		State:        state,
		CanResend:    otp.CanResend(now),
		AttemptCount: otp.AttemptCount,
		ExpiresAt:    &expiresAt,
	}
	if state == models.OTPStateIssued {
		resp.RemainingSeconds = otp.RemainingSeconds(now)
	}
	return resp, nil
}

// StartCountdown begins a one-second countdown toward the current code's
// expiry. With no live code it finishes immediately.
func (s *phoneOTPService) StartCountdown(ctx context.Context, phone string, onTick func(remaining int), onDone func()) (*Countdown, error) {
	status, err := s.Status(ctx, phone)
	if err != nil {
		return nil, err
	}

	deadline := s.clock.Now()
	if status.State == models.OTPStateIssued && status.ExpiresAt != nil {
		deadline = *status.ExpiresAt
	}
	return NewCountdown(s.clock, deadline, onTick, onDone), nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/config"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/models"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/repositories"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/utils"
)

// Allow the detached persistence write more room than the bounded wait,
// so a slow write can still land after the handler has moved on.
const persistBackgroundTimeout = 10 * time.Second

// OTPService owns the pending-code lifecycle: issue (send SMS), verify
// against the stored code with TTL and attempt cap, and persist the
// verified-phone record on success.
type OTPService interface {
	IssueCode(ctx context.Context, phone, clientIP string) error
	ResendCode(ctx context.Context, phone, clientIP string) error
	VerifyCode(ctx context.Context, phone, submittedCode string, browserData map[string]any) error
}

type otpService struct {
	pendingRepo  repositories.PendingCodeRepository
	verifiedRepo repositories.VerifiedPhoneRepository
	rateLimiter  RateLimiterService
	sms          SMSSender
	cfg          *config.Config
}

func NewOTPService(
	pendingRepo repositories.PendingCodeRepository,
	verifiedRepo repositories.VerifiedPhoneRepository,
	rateLimiter RateLimiterService,
	sms SMSSender,
	cfg *config.Config,
) OTPService {
	return &otpService{
		pendingRepo:  pendingRepo,
		verifiedRepo: verifiedRepo,
		rateLimiter:  rateLimiter,
		sms:          sms,
		cfg:          cfg,
	}
}

// IssueCode stores a fresh 6-digit code for the phone (overwriting any
// prior pending code, so the last code wins) and dispatches exactly one
// SMS. Rapid repeated calls are not deduplicated beyond rate limits.
func (s *otpService) IssueCode(ctx context.Context, phone, clientIP string) error {
	if err := s.rateLimiter.CheckSMSRateLimits(ctx, clientIP, phone); err != nil {
		return err
	}

	if !utils.IsValidPhone(phone) {
		return utils.ErrInvalidPhone
	}

	code := utils.RandomNumericString(s.cfg.VerificationCodeLength)
	now := time.Now()
	rec := &models.PendingCode{
		Code:      code,
		Attempts:  0,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.VerificationCodeExpiry),
	}
	if err := s.pendingRepo.Save(ctx, phone, rec); err != nil {
		return fmt.Errorf("store pending code: %w", err)
	}

	messageID, err := s.sms.Send(ctx, phone, fmt.Sprintf("Your verification code is: %s", code))
	if err != nil {
		utils.Logger.WithError(err).Errorf("Failed to send verification SMS to %s", phone)
		return fmt.Errorf("%w: %v", utils.ErrExternalServiceFailure, err)
	}

	utils.Logger.Infof("OTP sent to %s (message ID: %s)", phone, messageID)
	return nil
}

// ResendCode has the same contract as IssueCode: a fresh code every
// time, invalidating the previous one.
func (s *otpService) ResendCode(ctx context.Context, phone, clientIP string) error {
	return s.IssueCode(ctx, phone, clientIP)
}

// VerifyCode walks the per-phone state machine:
//
//	no pending code -> ErrNoPendingCode
//	expired         -> delete, ErrCodeExpired
//	attempts > max  -> delete, ErrTooManyAttempts (attempts count even
//	                   for a correct guess arriving after the cap)
//	mismatch        -> keep code so the user can retry, ErrCodeInvalid
//	match           -> delete code (verify is one-shot), upsert the
//	                   verified-phone record in the background
//
// The verified-phone write is fire-and-forget with a bounded wait: the
// caller gets success based on the code match alone, and a slow or
// failed persistence is logged, never surfaced.
func (s *otpService) VerifyCode(ctx context.Context, phone, submittedCode string, browserData map[string]any) error {
	rec, err := s.pendingRepo.Get(ctx, phone)
	if err != nil {
		return fmt.Errorf("load pending code: %w", err)
	}
	if rec == nil {
		return utils.ErrNoPendingCode
	}

	now := time.Now()
	if rec.Expired(now) {
		if delErr := s.pendingRepo.Delete(ctx, phone); delErr != nil {
			utils.Logger.WithError(delErr).Warnf("Failed to delete expired code for %s", phone)
		}
		return utils.ErrCodeExpired
	}

	rec.Attempts++
	if rec.Attempts > s.cfg.MaxVerifyAttempts {
		if delErr := s.pendingRepo.Delete(ctx, phone); delErr != nil {
			utils.Logger.WithError(delErr).Warnf("Failed to delete maxed-out code for %s", phone)
		}
		return utils.ErrTooManyAttempts
	}

	if rec.Code != submittedCode {
		if saveErr := s.pendingRepo.Save(ctx, phone, rec); saveErr != nil {
			utils.Logger.WithError(saveErr).Warnf("Failed to persist attempt count for %s", phone)
		}
		return utils.ErrCodeInvalid
	}

	if err := s.pendingRepo.Delete(ctx, phone); err != nil {
		return fmt.Errorf("consume pending code: %w", err)
	}

	s.persistVerification(phone, browserData)

	utils.Logger.Infof("OTP verified for %s", phone)
	return nil
}

// persistVerification runs the verified-phone upsert on a detached
// goroutine and waits at most PersistWaitTimeout for it. The write gets
// its own context: the HTTP request context may be gone by the time it
// completes.
func (s *otpService) persistVerification(phone string, browserData map[string]any) {
	done := make(chan error, 1)
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), persistBackgroundTimeout)
		defer cancel()
		done <- s.verifiedRepo.Upsert(pctx, phone, browserData, time.Now())
	}()

	select {
	case err := <-done:
		if err != nil {
			utils.Logger.WithError(err).Errorf("Failed to save verification record for %s", phone)
		}
	case <-time.After(s.cfg.PersistWaitTimeout):
		utils.Logger.Warnf("Verification record write for %s still pending after %v; responding without it", phone, s.cfg.PersistWaitTimeout)
	}
}

package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/config"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/dtos"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/services"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/utils"
)

type OTPController struct {
	otpService     services.OTPService
	sessionService services.SessionService
	cfg            *config.Config
}

func NewOTPController(otpService services.OTPService, sessionService services.SessionService, cfg *config.Config) *OTPController {
	return &OTPController{otpService: otpService, sessionService: sessionService, cfg: cfg}
}

var otpValidate = validator.New()

// SendOTP handles POST /api/otp/send.
func (c *OTPController) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req dtos.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Phone number and country code are required", nil, err,
		)
		return
	}
	if err := otpValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Phone number and country code are required", nil, err,
		)
		return
	}

	phone := utils.FormatPhone(req.CountryCode, req.PhoneNumber)
	clientIP := utils.GetClientIP(r)

	if err := c.otpService.IssueCode(r.Context(), phone, clientIP); err != nil {
		c.respondIssueError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.SendOTPResponse{
		Status:  "success",
		Message: "OTP sent successfully",
	})
}

// ResendOTP handles POST /api/otp/resend. Identical contract to send:
// a fresh code is issued, invalidating the previous one.
func (c *OTPController) ResendOTP(w http.ResponseWriter, r *http.Request) {
	c.SendOTP(w, r)
}

// VerifyOTP handles POST /api/otp/verify. On success it sets the signed
// verified_phone continuity cookie.
func (c *OTPController) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req dtos.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Phone number, country code, and OTP are required", nil, err,
		)
		return
	}
	if err := otpValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Phone number, country code, and OTP are required", nil, err,
		)
		return
	}

	phone := utils.FormatPhone(req.CountryCode, req.PhoneNumber)

	if err := c.otpService.VerifyCode(r.Context(), phone, req.OTP, req.BrowserData); err != nil {
		c.respondVerifyError(w, err)
		return
	}

	token, err := c.sessionService.IssueToken(phone, time.Now())
	if err != nil {
		// The OTP matched; a token signing failure should not undo that.
		utils.Logger.WithError(err).Errorf("Failed to sign continuity token for %s", phone)
	} else {
		utils.SetVerifiedPhoneCookie(w, token, c.cfg.CookieExpiry, c.cfg.CookieSecure)
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.VerifyOTPResponse{
		Status:  "success",
		Message: "OTP verified successfully",
	})
}

// CheckVerification handles GET /api/otp/check-verification. Cookie
// only, no store lookup; HTTP 200 whether or not the client is
// verified.
func (c *OTPController) CheckVerification(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(utils.VerifiedPhoneCookieName)
	if err != nil || cookie.Value == "" {
		utils.RespondWithJSON(w, http.StatusOK, dtos.CheckVerificationResponse{
			Status:   "error",
			Message:  "Not verified",
			Verified: false,
		})
		return
	}

	phone, ok := c.sessionService.CheckToken(cookie.Value)
	if !ok {
		// Forged, tampered, or expired token: clear it.
		utils.ClearVerifiedPhoneCookie(w, c.cfg.CookieSecure)
		utils.RespondWithJSON(w, http.StatusOK, dtos.CheckVerificationResponse{
			Status:   "error",
			Message:  "Not verified",
			Verified: false,
		})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.CheckVerificationResponse{
		Status:   "success",
		Message:  "Phone number verified",
		Verified: true,
		Phone:    phone,
	})
}

func (c *OTPController) respondIssueError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, utils.ErrRateLimitExceeded):
		utils.RespondErrorWithCode(
			w, http.StatusTooManyRequests, utils.ErrCodeRateLimitExceeded, "Too many requests. Please try again later.", nil,
		)
	case errors.Is(err, utils.ErrInvalidPhone):
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid phone number", nil, err,
		)
	case errors.Is(err, utils.ErrExternalServiceFailure):
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeSMSSendFailed, fmt.Sprintf("Failed to send OTP: %v", err), nil, err,
		)
	default:
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal, "An unexpected error occurred", nil, err,
		)
	}
}

func (c *OTPController) respondVerifyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, utils.ErrNoPendingCode):
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeNoPendingCode, "No verification in progress. Please request a new code.", nil,
		)
	case errors.Is(err, utils.ErrCodeExpired):
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeCodeExpired, "OTP expired. Please request a new code.", nil,
		)
	case errors.Is(err, utils.ErrTooManyAttempts):
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeTooManyAttempts, "Too many attempts. Please request a new code.", nil,
		)
	case errors.Is(err, utils.ErrCodeInvalid):
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidOTP, "Invalid OTP", nil,
		)
	default:
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal, "An unexpected error occurred", nil, err,
		)
	}
}

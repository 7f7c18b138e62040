package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/config"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/dtos"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/services"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/utils"
)

const defaultTransactionNote = "Payment for order"

type PaymentController struct {
	paymentService services.PaymentService
	sessionService services.SessionService
	cfg            *config.Config
}

func NewPaymentController(paymentService services.PaymentService, sessionService services.SessionService, cfg *config.Config) *PaymentController {
	return &PaymentController{paymentService: paymentService, sessionService: sessionService, cfg: cfg}
}

var paymentValidate = validator.New()

// GenerateQR handles POST /api/payment/generate-qr.
func (c *PaymentController) GenerateQR(w http.ResponseWriter, r *http.Request) {
	var req dtos.GenerateQRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request data", nil, err,
		)
		return
	}
	if err := paymentValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Amount, phone number, and browser data are required", nil, err,
		)
		return
	}

	phone := strings.TrimSpace(req.PhoneNumber)
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}

	merchantName := req.MerchantName
	if merchantName == "" {
		merchantName = c.cfg.UPIMerchantName
	}
	transactionNote := req.TransactionNote
	if transactionNote == "" {
		transactionNote = defaultTransactionNote
	}

	utils.Logger.Infof("QR generation request for phone: %s, amount: %.2f", phone, req.Amount)

	// Recently verified phones are worth noting against the payment
	// attempt; the cookie is informational here, not a gate.
	if cookie, err := r.Cookie(utils.VerifiedPhoneCookieName); err == nil {
		if cookiePhone, ok := c.sessionService.CheckElevated(cookie.Value); ok && cookiePhone == phone {
			utils.Logger.Infof("QR generated for recently verified phone: %s", phone)
		}
	}

	upiURL := c.paymentService.BuildUPIURL(req.Amount, merchantName, transactionNote)
	qrDataURI, err := c.paymentService.GenerateQRDataURI(upiURL)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeQRGeneration, "Failed to generate QR code", nil, err,
		)
		return
	}

	resp := dtos.GenerateQRResponse{
		Status: "success",
		QRCode: qrDataURI,
		UPIDetails: dtos.UPIDetails{
			UPIID:           c.cfg.UPIID,
			UPIURL:          upiURL,
			Amount:          req.Amount,
			MerchantName:    merchantName,
			TransactionNote: transactionNote,
		},
	}

	// Correlation failure degrades the response instead of failing it:
	// the client still gets a usable QR code.
	transactionID, isNew, err := c.paymentService.Correlate(r.Context(), phone, req.Amount, req.BrowserData)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Failed to save live transaction for phone: %s", phone)
	} else {
		resp.TransactionID = &transactionID
		resp.IsNewTransaction = &isNew
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// UpdateQRTimestamp handles POST /api/payment/update-qr-timestamp.
// Best-effort: an unknown transaction ID is logged server-side and the
// client still gets success.
func (c *PaymentController) UpdateQRTimestamp(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpdateQRTimestampRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Transaction ID is required", nil, err,
		)
		return
	}
	if err := paymentValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Transaction ID is required", nil, err,
		)
		return
	}

	c.paymentService.TouchQRTimestamp(r.Context(), req.TransactionID)

	utils.RespondWithJSON(w, http.StatusOK, dtos.UpdateQRTimestampResponse{
		Status:  "success",
		Message: "Transaction timestamp updated",
	})
}

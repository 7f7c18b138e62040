package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/config"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/utils"
)

type fakePaymentService struct {
	correlateID    string
	correlateIsNew bool
	correlateErr   error
	correlatePhone string
	qrErr          error
	touchedIDs     []string
}

func (s *fakePaymentService) Correlate(_ context.Context, phone string, _ float64, _ map[string]any) (string, bool, error) {
	if s.correlateErr != nil {
		return "", false, s.correlateErr
	}
	s.correlatePhone = phone
	return s.correlateID, s.correlateIsNew, nil
}

func (s *fakePaymentService) TouchQRTimestamp(_ context.Context, transactionID string) {
	s.touchedIDs = append(s.touchedIDs, transactionID)
}

func (s *fakePaymentService) BuildUPIURL(amount float64, merchantName, transactionNote string) string {
	return "upi://pay?pa=merchant%40upi&am=1.00"
}

func (s *fakePaymentService) GenerateQRDataURI(content string) (string, error) {
	if s.qrErr != nil {
		return "", s.qrErr
	}
	return "data:image/png;base64,ZmFrZQ==", nil
}

func paymentControllerConfig() *config.Config {
	return &config.Config{
		UPIID:           "merchant@upi",
		UPIMerchantName: "Test Merchant",
	}
}

func TestGenerateQRSuccess(t *testing.T) {
	payment := &fakePaymentService{correlateID: "919876543210_1700000000_abc123", correlateIsNew: true}
	c := NewPaymentController(payment, &fakeSessionService{}, paymentControllerConfig())

	rr := postJSON(c.GenerateQR,
		`{"amount":499.0,"phone_number":"919876543210","browser_data":{"ua":"x"}}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "data:image/png;base64,ZmFrZQ==", body["qr_code"])
	assert.Equal(t, "919876543210_1700000000_abc123", body["transaction_id"])
	assert.Equal(t, true, body["is_new_transaction"])

	// The phone is normalized to a leading '+' before correlation.
	assert.Equal(t, "+919876543210", payment.correlatePhone)

	details, ok := body["upi_details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "merchant@upi", details["upi_id"])
	assert.Equal(t, "Test Merchant", details["merchant_name"])
	assert.Equal(t, "Payment for order", details["transaction_note"])
}

func TestGenerateQRHonorsCustomMerchantFields(t *testing.T) {
	payment := &fakePaymentService{correlateID: "id", correlateIsNew: false}
	c := NewPaymentController(payment, &fakeSessionService{}, paymentControllerConfig())

	rr := postJSON(c.GenerateQR,
		`{"amount":10,"phone_number":"+919876543210","browser_data":{},"merchant_name":"Custom","transaction_note":"Invoice 42"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	details := decodeBody(t, rr)["upi_details"].(map[string]any)
	assert.Equal(t, "Custom", details["merchant_name"])
	assert.Equal(t, "Invoice 42", details["transaction_note"])
}

func TestGenerateQRValidation(t *testing.T) {
	c := NewPaymentController(&fakePaymentService{}, &fakeSessionService{}, paymentControllerConfig())

	for _, body := range []string{
		`{}`,
		`{"amount":0,"phone_number":"+919876543210","browser_data":{}}`,
		`{"amount":-5,"phone_number":"+919876543210","browser_data":{}}`,
		`{"amount":10,"browser_data":{}}`,
		`{"amount":10,"phone_number":"+919876543210"}`,
		`garbage`,
	} {
		rr := postJSON(c.GenerateQR, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}

func TestGenerateQRDegradesWhenCorrelationFails(t *testing.T) {
	payment := &fakePaymentService{correlateErr: assert.AnError}
	c := NewPaymentController(payment, &fakeSessionService{}, paymentControllerConfig())

	rr := postJSON(c.GenerateQR,
		`{"amount":499.0,"phone_number":"+919876543210","browser_data":{}}`)

	// The client still gets a usable QR code; correlation fields are null.
	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "success", body["status"])
	assert.NotEmpty(t, body["qr_code"])
	assert.Nil(t, body["transaction_id"])
	assert.Nil(t, body["is_new_transaction"])
}

func TestGenerateQRFailsWhenEncodingFails(t *testing.T) {
	payment := &fakePaymentService{qrErr: assert.AnError}
	c := NewPaymentController(payment, &fakeSessionService{}, paymentControllerConfig())

	rr := postJSON(c.GenerateQR,
		`{"amount":499.0,"phone_number":"+919876543210","browser_data":{}}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, utils.ErrCodeQRGeneration, decodeBody(t, rr)["code"])
}

func TestUpdateQRTimestamp(t *testing.T) {
	payment := &fakePaymentService{}
	c := NewPaymentController(payment, &fakeSessionService{}, paymentControllerConfig())

	rr := postJSON(c.UpdateQRTimestamp, `{"transaction_id":"919876543210_1700000000_abc123"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Transaction timestamp updated", body["message"])
	assert.Equal(t, []string{"919876543210_1700000000_abc123"}, payment.touchedIDs)
}

func TestUpdateQRTimestampRequiresID(t *testing.T) {
	c := NewPaymentController(&fakePaymentService{}, &fakeSessionService{}, paymentControllerConfig())

	for _, body := range []string{`{}`, `{"transaction_id":""}`, `nope`} {
		rr := postJSON(c.UpdateQRTimestamp, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}

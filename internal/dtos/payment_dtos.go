package dtos

// ----------------------
// UPI QR generation
// ----------------------

type GenerateQRRequest struct {
	Amount          float64        `json:"amount" validate:"required,gt=0"`
	PhoneNumber     string         `json:"phone_number" validate:"required"`
	BrowserData     map[string]any `json:"browser_data" validate:"required"`
	MerchantName    string         `json:"merchant_name"`
	TransactionNote string         `json:"transaction_note"`
}

type UPIDetails struct {
	UPIID           string  `json:"upi_id"`
	UPIURL          string  `json:"upi_url"`
	Amount          float64 `json:"amount"`
	MerchantName    string  `json:"merchant_name"`
	TransactionNote string  `json:"transaction_note"`
}

type GenerateQRResponse struct {
	Status           string     `json:"status"`
	QRCode           string     `json:"qr_code"`
	UPIDetails       UPIDetails `json:"upi_details"`
	TransactionID    *string    `json:"transaction_id"`
	IsNewTransaction *bool      `json:"is_new_transaction"`
}

// ----------------------
// QR timestamp refresh
// ----------------------

type UpdateQRTimestampRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
}

type UpdateQRTimestampResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

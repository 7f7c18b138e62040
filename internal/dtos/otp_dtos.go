package dtos

// ----------------------
// OTP send / resend
// ----------------------

type SendOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,numeric,min=2,max=14"`
	CountryCode string `json:"country_code" validate:"required"`
}

type SendOTPResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ----------------------
// OTP verify
// ----------------------

type VerifyOTPRequest struct {
	PhoneNumber string         `json:"phone_number" validate:"required,numeric,min=2,max=14"`
	CountryCode string         `json:"country_code" validate:"required"`
	OTP         string         `json:"otp" validate:"required,len=6,numeric"`
	BrowserData map[string]any `json:"browser_data"`
}

type VerifyOTPResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ----------------------
// Cookie check
// ----------------------

type CheckVerificationResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Verified bool   `json:"verified"`
	Phone    string `json:"phone,omitempty"`
}

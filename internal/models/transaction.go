package models

import "time"

const TransactionStatusPending = "pending"

// Transaction is a live payment attempt in the live_transactions
// collection, document ID = TransactionID.
//
// Invariant: for a given phone number, at most one pending-and-unpaid
// transaction inside any rolling 5-minute window. Regenerating the QR
// within that window updates the existing row in place instead of
// inserting a duplicate. Once PaymentReceived flips true the row is
// immutable history as far as this service is concerned.
type Transaction struct {
	TransactionID   string         `bson:"transaction_id"`
	PhoneNumber     string         `bson:"phone_number"`
	Amount          float64        `bson:"amount"`
	Status          string         `bson:"status"`
	PaymentReceived bool           `bson:"payment_received"`
	PaymentVerified bool           `bson:"payment_verified"`
	BrowserData     map[string]any `bson:"browser_data"`
	CreatedAt       time.Time      `bson:"created_at"`
	LastQRGenAt     time.Time      `bson:"last_qr_gen_at"`
	UpdatedAt       time.Time      `bson:"updated_at"`
}

package models

import "time"

// VerifiedPhone is the persisted record of a successful phone
// verification, one document per phone number in the verified_phones
// collection. The document ID is the digits-only form of the phone.
//
// CreatedAt and VerifiedAt are written once, on first verification;
// every later verification only touches LastVerifiedAt / UpdatedAt /
// BrowserData (merge semantics). Records are never deleted here.
type VerifiedPhone struct {
	PhoneNumber    string         `bson:"phone_number"`
	BrowserData    map[string]any `bson:"browser_data"`
	CreatedAt      time.Time      `bson:"created_at,omitempty"`
	VerifiedAt     time.Time      `bson:"verified_at,omitempty"`
	LastVerifiedAt time.Time      `bson:"last_verified_at"`
	UpdatedAt      time.Time      `bson:"updated_at"`
}

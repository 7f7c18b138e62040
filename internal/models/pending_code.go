package models

import "time"

// PendingCode is the outstanding OTP for a phone number, held in Redis
// keyed by the E.164 phone. At most one exists per phone; issuing a new
// code overwrites the previous one.
type PendingCode struct {
	Code      string    `json:"code"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (c *PendingCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

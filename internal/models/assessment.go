package models

import "time"

// AssessmentReceipt identifies a stored submission.
type AssessmentReceipt struct {
	ID        string    `json:"id"`
	PhoneID   string    `json:"phone_id"`
	CreatedAt time.Time `json:"created_at"`
}

package domain

import "time"

// BillingMessage is a notice an administrator sends to an account holder.
type BillingMessage struct {
	MessageID int64     `json:"messageID"`
	AccountID string    `json:"accountID"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

package dto

import (
	"time"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
)

// SendMessageRequest defines a billing message an admin sends to an account.
type SendMessageRequest struct {
	Subject string `json:"subject" binding:"required,max=200"`
	Body    string `json:"body" binding:"required,max=5000"`
}

// MessageResponse defines the data returned for a billing message.
type MessageResponse struct {
	MessageID int64     `json:"messageID"`
	AccountID string    `json:"accountID"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToMessageResponse converts a domain.BillingMessage to MessageResponse DTO
func ToMessageResponse(m *domain.BillingMessage) MessageResponse {
	return MessageResponse{
		MessageID: m.MessageID,
		AccountID: m.AccountID,
		Subject:   m.Subject,
		Body:      m.Body,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

// ToListMessageResponse converts a slice of domain.BillingMessage to DTOs
func ToListMessageResponse(msgs []domain.BillingMessage) []MessageResponse {
	res := make([]MessageResponse, len(msgs))
	for i := range msgs {
		res[i] = ToMessageResponse(&msgs[i])
	}
	return res
}

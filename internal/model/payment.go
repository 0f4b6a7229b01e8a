package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Remote payment status values. This is the only entity with a real
// state machine; the authoritative copy always lives on the backend.
const (
	PaymentPending    = "pending"
	PaymentProcessing = "processing"
	PaymentCompleted  = "completed"
	PaymentFailed     = "failed"
	PaymentCancelled  = "cancelled"
)

type PaymentStatus struct {
	TransactionID TxnID           `json:"transaction_id"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount,omitempty"`
	Currency      string          `json:"currency,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	CreatedAt     *time.Time      `json:"created_at,omitempty"`
}

// Terminal reports whether the status will never change again, so
// polling can stop.
func (p *PaymentStatus) Terminal() bool {
	switch p.Status {
	case PaymentCompleted, PaymentFailed, PaymentCancelled:
		return true
	}
	return false
}

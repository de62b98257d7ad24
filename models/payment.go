package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentProvider string

const (
	ProviderMTN      PaymentProvider = "mtn"
	ProviderVodafone PaymentProvider = "vodafone"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentSuccessful PaymentStatus = "SUCCESSFUL"
	PaymentFailed     PaymentStatus = "FAILED"

	// PaymentAbandoned is assigned locally when status polling gives up.
	// It is never reported back to the provider.
	PaymentAbandoned PaymentStatus = "ABANDONED"
)

// PaymentRequest is the in-flight listing-fee payment. The reference id is
// generated locally before any network call and is the sole correlation key
// between initiation and status polling.
type PaymentRequest struct {
	ReferenceID string          `json:"reference_id"`
	PhoneNumber string          `json:"phone_number"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Provider    PaymentProvider `json:"provider"`
	Status      PaymentStatus   `json:"status"`
	AdID        string          `json:"ad_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PaymentForm is the initiation input after phone-number cleanup.
type PaymentForm struct {
	PhoneNumber string          `json:"phone_number"`
	Amount      decimal.Decimal `json:"amount"`
	AdID        string          `json:"ad_id,omitempty"`
}

type PaymentInitiation struct {
	ReferenceID     string        `json:"reference_id"`
	Status          PaymentStatus `json:"status"`
	Message         string        `json:"message"`
	DevelopmentMode bool          `json:"development_mode,omitempty"`
}

// PaymentStatusResult mirrors the provider's requesttopay status payload.
// Amount comes back as a string on the wire and is kept that way.
type PaymentStatusResult struct {
	ReferenceID            string        `json:"reference_id"`
	Status                 PaymentStatus `json:"status"`
	Amount                 string        `json:"amount,omitempty"`
	Currency               string        `json:"currency,omitempty"`
	Reason                 string        `json:"reason,omitempty"`
	FinancialTransactionID string        `json:"financial_transaction_id,omitempty"`
	DevelopmentMode        bool          `json:"development_mode,omitempty"`
}

// Terminal reports whether the status cannot change anymore.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentSuccessful || s == PaymentFailed || s == PaymentAbandoned
}

package status

import "errors"

var (
	ErrInvalidPhoneNumber = errors.New("payment: invalid phone number")
	ErrUnauthorized       = errors.New("payment: provider rejected credentials")
	ErrPaymentDeclined    = errors.New("payment: payment declined")
	ErrNotConfigured      = errors.New("payment: provider not configured")
	ErrPaymentsDisabled   = errors.New("payment: payments are disabled")
	ErrPaymentNotFound    = errors.New("payment: payment not found")
	ErrPollExhausted      = errors.New("payment: status polling attempts exhausted")
)

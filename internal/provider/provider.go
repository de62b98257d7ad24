package provider

import (
	"context"

	"adhouse/models"
)

// Collections is the slice of a mobile-money provider the payment flow uses:
// prompt the payer's wallet, then query the outcome by reference id.
type Collections interface {
	RequestToPay(ctx context.Context, form *models.PaymentForm) (*models.PaymentInitiation, error)
	CheckStatus(ctx context.Context, referenceID string) (*models.PaymentStatusResult, error)
}

func providerName(p models.PaymentProvider) string {
	if p == models.ProviderVodafone {
		return "Telecel Cash"
	}
	return "MTN Mobile Money"
}

package provider

import (
	"context"
	"fmt"
	"time"

	"adhouse/internal/status"
	"adhouse/models"

	"github.com/google/uuid"
)

var _ Collections = (*telecel)(nil)

// telecel is a placeholder adapter. The Telecel Cash API was never wired up
// upstream: initiation acknowledges the request without contacting anyone and
// status inquiries refuse outright. It exists so a configured vodafone
// provider degrades explicitly instead of silently routing through MTN.
type telecel struct {
	baseURL string
	apiKey  string
	delay   time.Duration
}

func newTelecel(baseURL, apiKey string) *telecel {
	return &telecel{
		baseURL: baseURL,
		apiKey:  apiKey,
		delay:   2 * time.Second,
	}
}

func (t *telecel) RequestToPay(ctx context.Context, form *models.PaymentForm) (*models.PaymentInitiation, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(t.delay):
	}

	return &models.PaymentInitiation{
		ReferenceID: uuid.NewString(),
		Status:      models.PaymentPending,
		Message:     fmt.Sprintf("Payment request sent to Telecel Cash number %s", form.PhoneNumber),
	}, nil
}

func (t *telecel) CheckStatus(_ context.Context, _ string) (*models.PaymentStatusResult, error) {
	return nil, fmt.Errorf("telecel: status inquiry: %w", status.ErrNotConfigured)
}

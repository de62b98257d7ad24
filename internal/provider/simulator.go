package provider

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"adhouse/internal/status"
	"adhouse/models"
	"adhouse/utils"

	"github.com/google/uuid"
)

var _ Collections = (*Simulator)(nil)

// Simulator stands in for a real provider when no credentials are configured.
// Outcomes are random with a success bias and every response carries the
// development-mode flag so callers cannot mistake them for real settlement.
type Simulator struct {
	provider    models.PaymentProvider
	payDelay    time.Duration
	statusDelay time.Duration

	// chance is injectable for deterministic tests.
	chance func() float64
}

func NewSimulator(p models.PaymentProvider, payDelay, statusDelay time.Duration) *Simulator {
	return &Simulator{
		provider:    p,
		payDelay:    payDelay,
		statusDelay: statusDelay,
		chance:      rand.Float64,
	}
}

// RequestToPay simulates initiation after an artificial delay; roughly one in
// ten attempts is declined.
func (s *Simulator) RequestToPay(ctx context.Context, form *models.PaymentForm) (*models.PaymentInitiation, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.payDelay):
	}

	if s.chance() >= 0.9 {
		return nil, fmt.Errorf("simulator: requestToPay: %w", status.ErrPaymentDeclined)
	}

	return &models.PaymentInitiation{
		ReferenceID:     uuid.NewString(),
		Status:          models.PaymentPending,
		Message:         fmt.Sprintf("[DEV MODE] Payment request sent to %s number %s", providerName(s.provider), utils.FormatPhoneNumber(form.PhoneNumber)),
		DevelopmentMode: true,
	}, nil
}

// CheckStatus simulates a status poll; roughly four in five checks report
// SUCCESSFUL and the rest stay PENDING.
func (s *Simulator) CheckStatus(ctx context.Context, referenceID string) (*models.PaymentStatusResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.statusDelay):
	}

	outcome := models.PaymentPending
	if s.chance() < 0.8 {
		outcome = models.PaymentSuccessful
	}

	return &models.PaymentStatusResult{
		ReferenceID:     referenceID,
		Status:          outcome,
		Amount:          "5",
		Currency:        "GHS",
		DevelopmentMode: true,
	}, nil
}

package provider

import (
	"fmt"

	"adhouse/config"
	"adhouse/internal/momo"
	"adhouse/internal/status"
	"adhouse/models"
)

// Factory hands out Collections adapters per provider. Credentials are
// process-wide read-only configuration, so adapters are built once.
type Factory struct {
	cfg *config.Config
	mtn momo.MoMo
}

func NewFactory(cfg *config.Config) *Factory {
	f := &Factory{cfg: cfg}

	if !cfg.DevelopmentMode() {
		f.mtn = momo.New(&momo.Config{
			BaseURL:           cfg.MomoAPIURL,
			SubscriptionKey:   cfg.MomoAPIKey,
			UserID:            cfg.MomoUserID,
			UserSecret:        cfg.MomoUserSecret,
			TargetEnvironment: cfg.MomoTargetEnvironment,
			CallbackHost:      cfg.MomoCallbackHost,
		})
	}

	return f
}

// Collections returns the adapter for the requested provider. With no MoMo
// credentials configured every provider resolves to the simulator.
func (f *Factory) Collections(p models.PaymentProvider) (Collections, error) {
	if f.cfg.DevelopmentMode() {
		return NewSimulator(p, f.cfg.SimulatedPaymentDelay, f.cfg.SimulatedStatusDelay), nil
	}

	switch p {
	case models.ProviderMTN:
		return f.mtn, nil

	case models.ProviderVodafone:
		if !f.cfg.TelecelConfigured() {
			return nil, fmt.Errorf("collections: telecel: %w", status.ErrNotConfigured)
		}
		return newTelecel(f.cfg.TelecelAPIURL, f.cfg.TelecelAPIKey), nil

	default:
		return nil, fmt.Errorf("collections: unsupported provider %q", p)
	}
}

// MoMo exposes the full MTN client for the one-time onboarding flow.
func (f *Factory) MoMo() (momo.MoMo, error) {
	if f.mtn == nil {
		return nil, fmt.Errorf("momo: %w", status.ErrNotConfigured)
	}
	return f.mtn, nil
}

// DevelopmentMode reports whether adapters are simulated.
func (f *Factory) DevelopmentMode() bool {
	return f.cfg.DevelopmentMode()
}

package provider

import (
	"context"
	"testing"
	"time"

	"adhouse/config"
	"adhouse/internal/status"
	"adhouse/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func devConfig() *config.Config {
	return &config.Config{
		PaymentsEnabled:       true,
		SimulatedPaymentDelay: 0,
		SimulatedStatusDelay:  0,
	}
}

func liveConfig() *config.Config {
	return &config.Config{
		PaymentsEnabled:       true,
		MomoAPIURL:            "https://sandbox.momodeveloper.mtn.com",
		MomoAPIKey:            "sub-key",
		MomoUserID:            "api-user",
		MomoUserSecret:        "api-secret",
		MomoTargetEnvironment: "sandbox",
	}
}

func TestFactory_DevelopmentModeResolvesToSimulator(t *testing.T) {
	f := NewFactory(devConfig())
	assert.True(t, f.DevelopmentMode())

	for _, p := range []models.PaymentProvider{models.ProviderMTN, models.ProviderVodafone} {
		col, err := f.Collections(p)
		require.NoError(t, err)
		assert.IsType(t, &Simulator{}, col)
	}
}

func TestFactory_LiveModeDispatch(t *testing.T) {
	f := NewFactory(liveConfig())
	assert.False(t, f.DevelopmentMode())

	col, err := f.Collections(models.ProviderMTN)
	require.NoError(t, err)
	assert.NotNil(t, col)

	// Telecel is gated behind its own credentials.
	_, err = f.Collections(models.ProviderVodafone)
	assert.ErrorIs(t, err, status.ErrNotConfigured)

	_, err = f.Collections(models.PaymentProvider("airtel"))
	assert.Error(t, err)
}

func TestFactory_MoMoOnboardingRequiresCredentials(t *testing.T) {
	_, err := NewFactory(devConfig()).MoMo()
	assert.ErrorIs(t, err, status.ErrNotConfigured)

	client, err := NewFactory(liveConfig()).MoMo()
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestSimulator_SuccessfulInitiationIsFlagged(t *testing.T) {
	sim := NewSimulator(models.ProviderMTN, 0, 0)
	sim.chance = func() float64 { return 0.0 } // always the lucky path

	init, err := sim.RequestToPay(context.Background(), &models.PaymentForm{
		PhoneNumber: "0241234567",
		Amount:      decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	assert.True(t, init.DevelopmentMode)
	assert.Equal(t, models.PaymentPending, init.Status)
	assert.Contains(t, init.Message, "[DEV MODE]")
	assert.Contains(t, init.Message, "MTN Mobile Money")
	assert.NotEmpty(t, init.ReferenceID)
}

func TestSimulator_DeclinedInitiation(t *testing.T) {
	sim := NewSimulator(models.ProviderVodafone, 0, 0)
	sim.chance = func() float64 { return 0.95 }

	_, err := sim.RequestToPay(context.Background(), &models.PaymentForm{
		PhoneNumber: "0201234567",
		Amount:      decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, status.ErrPaymentDeclined)
}

func TestSimulator_StatusOutcomes(t *testing.T) {
	sim := NewSimulator(models.ProviderMTN, 0, 0)

	sim.chance = func() float64 { return 0.5 }
	result, err := sim.CheckStatus(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccessful, result.Status)
	assert.True(t, result.DevelopmentMode)
	assert.Equal(t, "5", result.Amount)
	assert.Equal(t, "GHS", result.Currency)

	sim.chance = func() float64 { return 0.9 }
	result, err = sim.CheckStatus(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, result.Status)
}

func TestSimulator_RespectsContextCancellation(t *testing.T) {
	sim := NewSimulator(models.ProviderMTN, time.Minute, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.RequestToPay(ctx, &models.PaymentForm{PhoneNumber: "0241234567", Amount: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = sim.CheckStatus(ctx, "ref-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTelecel_StubBehaviour(t *testing.T) {
	stub := newTelecel("https://api.telecel.example", "key")
	stub.delay = 0

	init, err := stub.RequestToPay(context.Background(), &models.PaymentForm{
		PhoneNumber: "0501234567",
		Amount:      decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, init.Status)
	assert.Contains(t, init.Message, "Telecel Cash")
	assert.False(t, init.DevelopmentMode)

	_, err = stub.CheckStatus(context.Background(), init.ReferenceID)
	assert.ErrorIs(t, err, status.ErrNotConfigured)
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatusTerminal(t *testing.T) {
	assert.False(t, PaymentPending.Terminal())
	assert.True(t, PaymentSuccessful.Terminal())
	assert.True(t, PaymentFailed.Terminal())
	assert.True(t, PaymentAbandoned.Terminal())

	// unknown provider statuses are treated as still in flight
	assert.False(t, PaymentStatus("CREATED").Terminal())
}

func TestPaymentInitiationOmitsDevFlagInLiveMode(t *testing.T) {
	raw, err := json.Marshal(&PaymentInitiation{
		ReferenceID: "ref-1",
		Status:      PaymentPending,
		Message:     "Payment request sent",
	})
	assert.NoError(t, err)
	assert.NotContains(t, string(raw), "development_mode")

	raw, err = json.Marshal(&PaymentInitiation{
		ReferenceID:     "ref-1",
		Status:          PaymentPending,
		DevelopmentMode: true,
	})
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `"development_mode":true`)
}

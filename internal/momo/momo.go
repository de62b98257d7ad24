package momo

import (
	"context"
	"net/http"
	"time"

	"adhouse/models"
)

var _ MoMo = (*momo)(nil)

type (
	Config struct {
		BaseURL         string `json:"base_url" mapstructure:"base_url"`
		SubscriptionKey string `json:"subscription_key" mapstructure:"subscription_key"`

		// UserID and UserSecret form the Basic-Auth pair for the token endpoint.
		UserID     string `json:"user_id" mapstructure:"user_id"`
		UserSecret string `json:"user_secret" mapstructure:"user_secret"`

		// TargetEnvironment is "sandbox" or "mtnghana".
		TargetEnvironment string `json:"target_environment" mapstructure:"target_environment"`

		// CallbackHost is advertised when onboarding an API user.
		CallbackHost string `json:"callback_host" mapstructure:"callback_host"`
	}

	momo struct {
		baseURL         string
		subscriptionKey string
		userID          string
		userSecret      string
		targetEnv       string
		callbackHost    string

		// hc is the http client.
		hc *http.Client
	}
)

// APIUser is the result of the one-time provider onboarding flow.
type APIUser struct {
	UserID string `json:"userId"`
	APIKey string `json:"apiKey"`
}

// MoMo is the MTN Mobile Money Collections client.
//
// Access tokens are acquired fresh for every operation and never cached;
// a failed token call fails the whole attempt with no retry.
type MoMo interface {
	RequestToPay(ctx context.Context, form *models.PaymentForm) (*models.PaymentInitiation, error)
	CheckStatus(ctx context.Context, referenceID string) (*models.PaymentStatusResult, error)
	CreateAPIUser(ctx context.Context) (*APIUser, error)
}

// New creates a new instance of the MoMo Collections client.
func New(cfg *Config) MoMo {
	return &momo{
		baseURL:         cfg.BaseURL,
		subscriptionKey: cfg.SubscriptionKey,
		userID:          cfg.UserID,
		userSecret:      cfg.UserSecret,
		targetEnv:       cfg.TargetEnvironment,
		callbackHost:    cfg.CallbackHost,

		// set http client with timeout.
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

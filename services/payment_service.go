package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"adhouse/config"
	"adhouse/internal/momo"
	"adhouse/internal/provider"
	"adhouse/internal/status"
	"adhouse/models"
	"adhouse/monitoring"
	"adhouse/utils"

	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const paymentNotificationChannel = "payment-notifications"

// ProviderFactory hands out per-provider payment adapters.
// *provider.Factory satisfies it; tests swap in scripted adapters.
type ProviderFactory interface {
	Collections(p models.PaymentProvider) (provider.Collections, error)
	MoMo() (momo.MoMo, error)
	DevelopmentMode() bool
}

type PaymentService struct {
	Redis    *redis.Client
	Notifier Publisher

	factory ProviderFactory
	cfg     *config.Config
	monitor *monitoring.Monitor
	breaker *utils.CircuitBreaker
	ads     *AdService

	// archive persists terminal outcomes to the payments collection.
	// Redis sessions expire; the archive is the durable record.
	archive core.App

	callbackTokenHash string

	// now is injectable for deterministic session timestamps in tests.
	now func() time.Time
}

func NewPaymentService(redisClient *redis.Client, notifier Publisher, factory ProviderFactory, cfg *config.Config, monitor *monitoring.Monitor, ads *AdService) *PaymentService {
	return &PaymentService{
		Redis:    redisClient,
		Notifier: notifier,
		factory:  factory,
		cfg:      cfg,
		monitor:  monitor,
		breaker:  utils.NewCircuitBreaker("momo"),
		ads:      ads,
		now:      time.Now,
	}
}

// SetArchive enables durable payment records in the payments collection.
func (s *PaymentService) SetArchive(app core.App) {
	s.archive = app
}

// SetCallbackTokenHash installs the bcrypt hash used to authenticate provider
// callback requests.
func (s *PaymentService) SetCallbackTokenHash(hash string) {
	s.callbackTokenHash = hash
}

// VerifyCallbackToken checks a presented callback token.
func (s *PaymentService) VerifyCallbackToken(token string) bool {
	if s.callbackTokenHash == "" || token == "" {
		return false
	}
	return utils.CompareToken(s.callbackTokenHash, token)
}

// ListingFee is the configured ad listing fee.
func (s *PaymentService) ListingFee() decimal.Decimal {
	fee, err := decimal.NewFromString(s.cfg.ListingFee)
	if err != nil {
		return decimal.NewFromInt(5)
	}
	return fee
}

type InitiatePaymentRequest struct {
	PhoneNumber string
	Amount      decimal.Decimal
	Provider    models.PaymentProvider
	AdID        string
}

// InitiatePayment validates the phone number, prompts the payer's wallet
// through the provider adapter and records a TTL'd payment session keyed by
// the reference id. Initiation is not idempotent: a resubmitted form prompts
// the payer's phone again under a fresh reference id.
func (s *PaymentService) InitiatePayment(ctx context.Context, req *InitiatePaymentRequest) (*models.PaymentInitiation, error) {
	if !s.cfg.PaymentsEnabled {
		return nil, fmt.Errorf("initiatePayment: %w", status.ErrPaymentsDisabled)
	}

	cleaned := utils.CleanPhoneNumber(req.PhoneNumber)
	if !utils.ValidatePhoneNumber(cleaned, string(req.Provider)) {
		return nil, fmt.Errorf("initiatePayment: %q: %w", req.Provider, status.ErrInvalidPhoneNumber)
	}

	col, err := s.factory.Collections(req.Provider)
	if err != nil {
		return nil, fmt.Errorf("initiatePayment: %w", err)
	}

	started := time.Now()
	result, err := s.breaker.Execute(ctx, func() (any, error) {
		return col.RequestToPay(ctx, &models.PaymentForm{
			PhoneNumber: cleaned,
			Amount:      req.Amount,
			AdID:        req.AdID,
		})
	})
	s.trackProviderCall(req.Provider, "requesttopay", time.Since(started))
	if err != nil {
		s.trackOperation("initiate", req.Provider, "error")
		return nil, fmt.Errorf("initiatePayment: %w", err)
	}

	init := result.(*models.PaymentInitiation)

	paymentKey := fmt.Sprintf("payment:%s", init.ReferenceID)
	s.Redis.HSet(ctx, paymentKey,
		"reference_id", init.ReferenceID,
		"phone_number", cleaned,
		"amount", req.Amount.String(),
		"currency", s.cfg.Currency,
		"provider", string(req.Provider),
		"status", string(models.PaymentPending),
		"ad_id", req.AdID,
		"created_at", strconv.FormatInt(s.now().Unix(), 10),
	)
	s.Redis.Expire(ctx, paymentKey, s.cfg.PaymentSessionTTL)

	s.trackOperation("initiate", req.Provider, "pending")

	return init, nil
}

// CheckPayment runs a single status check and folds the outcome into the
// payment session. Reference ids without a session are still proxied to the
// provider, which decides whether they exist.
func (s *PaymentService) CheckPayment(ctx context.Context, referenceID string) (*models.PaymentStatusResult, error) {
	if !s.cfg.PaymentsEnabled {
		return nil, fmt.Errorf("checkPayment: %w", status.ErrPaymentsDisabled)
	}

	prov := s.sessionProvider(ctx, referenceID)

	col, err := s.factory.Collections(prov)
	if err != nil {
		return nil, fmt.Errorf("checkPayment: %w", err)
	}

	started := time.Now()
	result, err := s.breaker.Execute(ctx, func() (any, error) {
		return col.CheckStatus(ctx, referenceID)
	})
	s.trackProviderCall(prov, "status", time.Since(started))
	if err != nil {
		s.trackOperation("status", prov, "error")
		return nil, fmt.Errorf("checkPayment: %w", err)
	}

	statusResult := result.(*models.PaymentStatusResult)
	s.recordOutcome(ctx, referenceID, prov, statusResult.Status)

	return statusResult, nil
}

// ResolvePayment drives the bounded status poller until the payment reaches a
// terminal state. Exhaustion marks the session ABANDONED locally; the
// provider is never told.
func (s *PaymentService) ResolvePayment(ctx context.Context, referenceID string, prov models.PaymentProvider) {
	col, err := s.factory.Collections(prov)
	if err != nil {
		log.Printf("ResolvePayment: %v", err)
		return
	}

	if s.monitor != nil {
		s.monitor.PollerStarted()
		defer s.monitor.PollerFinished()
	}

	poller := momo.NewStatusPoller(col, s.cfg.StatusPollInterval, s.cfg.StatusPollMaxRetries)

	result, err := poller.Poll(ctx, referenceID)
	switch {
	case errors.Is(err, status.ErrPollExhausted):
		s.recordOutcome(ctx, referenceID, prov, models.PaymentAbandoned)

	case err != nil:
		log.Printf("ResolvePayment: %s: %v", referenceID, err)
		s.trackOperation("resolve", prov, "error")

	default:
		s.recordOutcome(ctx, referenceID, prov, result.Status)
	}
}

// HandleCallback applies a provider-pushed terminal status to an existing
// payment session.
func (s *PaymentService) HandleCallback(ctx context.Context, referenceID string, outcome models.PaymentStatus) error {
	paymentKey := fmt.Sprintf("payment:%s", referenceID)

	data := s.Redis.HGetAll(ctx, paymentKey).Val()
	if len(data) == 0 {
		return fmt.Errorf("handleCallback: %s: %w", referenceID, status.ErrPaymentNotFound)
	}

	prov := models.PaymentProvider(data["provider"])
	s.recordOutcome(ctx, referenceID, prov, outcome)

	return nil
}

// CreateAPIUser runs the one-time MTN onboarding flow.
func (s *PaymentService) CreateAPIUser(ctx context.Context) (*momo.APIUser, error) {
	if !s.cfg.PaymentsEnabled {
		return nil, fmt.Errorf("createAPIUser: %w", status.ErrPaymentsDisabled)
	}

	client, err := s.factory.MoMo()
	if err != nil {
		return nil, fmt.Errorf("createAPIUser: %w", err)
	}

	return client.CreateAPIUser(ctx)
}

// GetPayment loads the session for a reference id.
func (s *PaymentService) GetPayment(ctx context.Context, referenceID string) (map[string]string, error) {
	data := s.Redis.HGetAll(ctx, fmt.Sprintf("payment:%s", referenceID)).Val()
	if len(data) == 0 {
		return nil, fmt.Errorf("getPayment: %s: %w", referenceID, status.ErrPaymentNotFound)
	}
	return data, nil
}

// PendingSessions lists reference ids of sessions still marked PENDING.
// Used on startup to resume pollers for payments interrupted by a restart.
func (s *PaymentService) PendingSessions(ctx context.Context) []models.PaymentRequest {
	var pending []models.PaymentRequest
	var cursor uint64

	for {
		keys, next, err := s.Redis.Scan(ctx, cursor, "payment:*", 100).Result()
		if err != nil {
			return pending
		}

		for _, key := range keys {
			data := s.Redis.HGetAll(ctx, key).Val()
			if data["status"] != string(models.PaymentPending) {
				continue
			}
			pending = append(pending, models.PaymentRequest{
				ReferenceID: data["reference_id"],
				Provider:    models.PaymentProvider(data["provider"]),
				Status:      models.PaymentPending,
			})
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return pending
}

func (s *PaymentService) sessionProvider(ctx context.Context, referenceID string) models.PaymentProvider {
	prov, err := s.Redis.HGet(ctx, fmt.Sprintf("payment:%s", referenceID), "provider").Result()
	if err != nil || prov == "" {
		return models.ProviderMTN
	}
	return models.PaymentProvider(prov)
}

func (s *PaymentService) recordOutcome(ctx context.Context, referenceID string, prov models.PaymentProvider, outcome models.PaymentStatus) {
	if !outcome.Terminal() {
		return
	}

	paymentKey := fmt.Sprintf("payment:%s", referenceID)
	data := s.Redis.HGetAll(ctx, paymentKey).Val()

	// Sessions are ephemeral; a resolved payment with no session is still a
	// valid provider answer, there is just nothing left to update.
	if len(data) == 0 {
		s.trackOperation("resolve", prov, strings.ToLower(string(outcome)))
		return
	}

	if data["status"] == string(outcome) {
		return
	}

	s.Redis.HSet(ctx, paymentKey, "status", string(outcome))
	s.archiveOutcome(ctx, referenceID, data, outcome)

	if outcome == models.PaymentSuccessful && data["ad_id"] != "" && s.ads != nil {
		if err := s.ads.Activate(ctx, data["ad_id"]); err != nil {
			log.Printf("recordOutcome: activate ad %s: %v", data["ad_id"], err)
		}
	}

	if s.Notifier != nil {
		s.Notifier.Publish(paymentNotificationChannel, map[string]any{
			"reference_id": referenceID,
			"status":       string(outcome),
		})
	}

	s.trackOperation("resolve", prov, strings.ToLower(string(outcome)))
}

func (s *PaymentService) archiveOutcome(ctx context.Context, referenceID string, session map[string]string, outcome models.PaymentStatus) {
	if s.archive == nil {
		return
	}

	collection, err := s.archive.FindCollectionByNameOrId("payments")
	if err != nil {
		log.Printf("archiveOutcome: %s: %v", referenceID, err)
		return
	}

	record := core.NewRecord(collection)
	record.Set("reference_id", referenceID)
	record.Set("phone_number", session["phone_number"])
	record.Set("amount", session["amount"])
	record.Set("currency", session["currency"])
	record.Set("provider", session["provider"])
	record.Set("status", string(outcome))
	record.Set("ad", session["ad_id"])

	if err := s.archive.SaveWithContext(ctx, record); err != nil {
		log.Printf("archiveOutcome: %s: %v", referenceID, err)
	}
}

func (s *PaymentService) trackOperation(operation string, prov models.PaymentProvider, outcome string) {
	if s.monitor != nil {
		s.monitor.TrackPaymentOperation(operation, string(prov), outcome)
	}
}

func (s *PaymentService) trackProviderCall(prov models.PaymentProvider, operation string, duration time.Duration) {
	if s.monitor != nil {
		s.monitor.TrackProviderCall(string(prov), operation, duration)
	}
}

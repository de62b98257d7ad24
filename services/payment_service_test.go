package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"adhouse/config"
	"adhouse/internal/momo"
	"adhouse/internal/provider"
	"adhouse/internal/status"
	"adhouse/models"
	"adhouse/utils"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollections struct {
	initiation *models.PaymentInitiation
	initErr    error

	statusResult *models.PaymentStatusResult
	statusErr    error

	payCalls    int
	statusCalls int
}

func (f *fakeCollections) RequestToPay(ctx context.Context, form *models.PaymentForm) (*models.PaymentInitiation, error) {
	f.payCalls++
	if f.initErr != nil {
		return nil, f.initErr
	}
	return f.initiation, nil
}

func (f *fakeCollections) CheckStatus(ctx context.Context, referenceID string) (*models.PaymentStatusResult, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.statusResult, nil
}

type fakeFactory struct {
	collections *fakeCollections
	err         error

	requested []models.PaymentProvider
}

func (f *fakeFactory) Collections(p models.PaymentProvider) (provider.Collections, error) {
	f.requested = append(f.requested, p)
	if f.err != nil {
		return nil, f.err
	}
	return f.collections, nil
}

func (f *fakeFactory) MoMo() (momo.MoMo, error) {
	return nil, status.ErrNotConfigured
}

func (f *fakeFactory) DevelopmentMode() bool { return true }

type recordingPublisher struct {
	channels []string
	messages []map[string]any
}

func (r *recordingPublisher) Publish(channel string, message map[string]any) {
	r.channels = append(r.channels, channel)
	r.messages = append(r.messages, message)
}

func testConfig() *config.Config {
	return &config.Config{
		PaymentsEnabled:      true,
		Currency:             "GHS",
		ListingFee:           "5",
		PaymentSessionTTL:    10 * time.Minute,
		StatusPollInterval:   time.Millisecond,
		StatusPollMaxRetries: 2,
	}
}

func newTestService(t *testing.T, factory *fakeFactory, cfg *config.Config) (*PaymentService, redismock.ClientMock, *recordingPublisher) {
	t.Helper()

	db, mock := redismock.NewClientMock()
	pub := &recordingPublisher{}

	svc := NewPaymentService(db, pub, factory, cfg, nil, nil)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }

	return svc, mock, pub
}

func TestInitiatePayment_DisabledByDefault(t *testing.T) {
	cfg := testConfig()
	cfg.PaymentsEnabled = false

	factory := &fakeFactory{collections: &fakeCollections{}}
	svc, _, _ := newTestService(t, factory, cfg)

	_, err := svc.InitiatePayment(context.Background(), &InitiatePaymentRequest{
		PhoneNumber: "0241234567",
		Amount:      decimal.NewFromInt(5),
		Provider:    models.ProviderMTN,
	})

	assert.ErrorIs(t, err, status.ErrPaymentsDisabled)
	assert.Zero(t, factory.collections.payCalls)
}

func TestInitiatePayment_InvalidPhoneNumber(t *testing.T) {
	factory := &fakeFactory{collections: &fakeCollections{}}
	svc, _, _ := newTestService(t, factory, testConfig())

	_, err := svc.InitiatePayment(context.Background(), &InitiatePaymentRequest{
		PhoneNumber: "0501234567", // Vodafone prefix on an MTN payment
		Amount:      decimal.NewFromInt(5),
		Provider:    models.ProviderMTN,
	})

	assert.ErrorIs(t, err, status.ErrInvalidPhoneNumber)
	assert.Zero(t, factory.collections.payCalls, "provider must not be called for an invalid number")
}

func TestInitiatePayment_StoresSession(t *testing.T) {
	factory := &fakeFactory{collections: &fakeCollections{
		initiation: &models.PaymentInitiation{
			ReferenceID: "ref-1",
			Status:      models.PaymentPending,
			Message:     "Payment request sent to MTN Mobile Money number 0241234567",
		},
	}}
	cfg := testConfig()
	svc, mock, _ := newTestService(t, factory, cfg)

	mock.ExpectHSet("payment:ref-1",
		"reference_id", "ref-1",
		"phone_number", "0241234567",
		"amount", "5",
		"currency", "GHS",
		"provider", "mtn",
		"status", "PENDING",
		"ad_id", "ad-1",
		"created_at", "1700000000",
	).SetVal(8)
	mock.ExpectExpire("payment:ref-1", cfg.PaymentSessionTTL).SetVal(true)

	init, err := svc.InitiatePayment(context.Background(), &InitiatePaymentRequest{
		PhoneNumber: "024 123 4567", // formatting is stripped before validation
		Amount:      decimal.NewFromInt(5),
		Provider:    models.ProviderMTN,
		AdID:        "ad-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "ref-1", init.ReferenceID)
	assert.Equal(t, models.PaymentPending, init.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitiatePayment_ProviderDeclined(t *testing.T) {
	factory := &fakeFactory{collections: &fakeCollections{
		initErr: status.ErrPaymentDeclined,
	}}
	svc, mock, _ := newTestService(t, factory, testConfig())

	_, err := svc.InitiatePayment(context.Background(), &InitiatePaymentRequest{
		PhoneNumber: "0241234567",
		Amount:      decimal.NewFromInt(5),
		Provider:    models.ProviderMTN,
	})

	assert.ErrorIs(t, err, status.ErrPaymentDeclined)
	assert.NoError(t, mock.ExpectationsWereMet(), "no session may be written for a declined payment")
}

func TestCheckPayment_SuccessfulUpdatesSession(t *testing.T) {
	factory := &fakeFactory{collections: &fakeCollections{
		statusResult: &models.PaymentStatusResult{
			ReferenceID: "ref-1",
			Status:      models.PaymentSuccessful,
			Amount:      "5",
			Currency:    "GHS",
		},
	}}
	svc, mock, pub := newTestService(t, factory, testConfig())

	mock.ExpectHGet("payment:ref-1", "provider").SetVal("mtn")
	mock.ExpectHGetAll("payment:ref-1").SetVal(map[string]string{
		"reference_id": "ref-1",
		"provider":     "mtn",
		"status":       "PENDING",
	})
	mock.ExpectHSet("payment:ref-1", "status", "SUCCESSFUL").SetVal(0)

	result, err := svc.CheckPayment(context.Background(), "ref-1")

	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccessful, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, pub.channels, 1)
	assert.Equal(t, paymentNotificationChannel, pub.channels[0])
	assert.Equal(t, "SUCCESSFUL", pub.messages[0]["status"])
}

func TestCheckPayment_UnknownReferenceDefaultsToMTN(t *testing.T) {
	factory := &fakeFactory{collections: &fakeCollections{
		statusResult: &models.PaymentStatusResult{
			ReferenceID: "ref-x",
			Status:      models.PaymentPending,
		},
	}}
	svc, mock, pub := newTestService(t, factory, testConfig())

	mock.ExpectHGet("payment:ref-x", "provider").RedisNil()

	result, err := svc.CheckPayment(context.Background(), "ref-x")

	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, result.Status)
	require.Len(t, factory.requested, 1)
	assert.Equal(t, models.ProviderMTN, factory.requested[0])
	assert.Empty(t, pub.channels, "a pending check must not notify")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolvePayment_ExhaustionMarksAbandoned(t *testing.T) {
	factory := &fakeFactory{collections: &fakeCollections{
		statusResult: &models.PaymentStatusResult{
			ReferenceID: "ref-1",
			Status:      models.PaymentPending,
		},
	}}
	cfg := testConfig()
	svc, mock, pub := newTestService(t, factory, cfg)

	mock.ExpectHGetAll("payment:ref-1").SetVal(map[string]string{
		"reference_id": "ref-1",
		"provider":     "mtn",
		"status":       "PENDING",
	})
	mock.ExpectHSet("payment:ref-1", "status", "ABANDONED").SetVal(0)

	svc.ResolvePayment(context.Background(), "ref-1", models.ProviderMTN)

	assert.Equal(t, cfg.StatusPollMaxRetries, factory.collections.statusCalls)
	assert.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, pub.messages, 1)
	assert.Equal(t, "ABANDONED", pub.messages[0]["status"])
}

func TestResolvePayment_TerminalStopsPolling(t *testing.T) {
	factory := &fakeFactory{collections: &fakeCollections{
		statusResult: &models.PaymentStatusResult{
			ReferenceID: "ref-1",
			Status:      models.PaymentFailed,
		},
	}}
	svc, mock, _ := newTestService(t, factory, testConfig())

	mock.ExpectHGetAll("payment:ref-1").SetVal(map[string]string{
		"reference_id": "ref-1",
		"provider":     "mtn",
		"status":       "PENDING",
	})
	mock.ExpectHSet("payment:ref-1", "status", "FAILED").SetVal(0)

	svc.ResolvePayment(context.Background(), "ref-1", models.ProviderMTN)

	assert.Equal(t, 1, factory.collections.statusCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleCallback_UnknownSession(t *testing.T) {
	factory := &fakeFactory{collections: &fakeCollections{}}
	svc, mock, _ := newTestService(t, factory, testConfig())

	mock.ExpectHGetAll("payment:ghost").SetVal(map[string]string{})

	err := svc.HandleCallback(context.Background(), "ghost", models.PaymentSuccessful)

	assert.ErrorIs(t, err, status.ErrPaymentNotFound)
}

func TestHandleCallback_AppliesOutcome(t *testing.T) {
	factory := &fakeFactory{collections: &fakeCollections{}}
	svc, mock, pub := newTestService(t, factory, testConfig())

	session := map[string]string{
		"reference_id": "ref-1",
		"provider":     "mtn",
		"status":       "PENDING",
	}
	mock.ExpectHGetAll("payment:ref-1").SetVal(session)
	mock.ExpectHGetAll("payment:ref-1").SetVal(session)
	mock.ExpectHSet("payment:ref-1", "status", "SUCCESSFUL").SetVal(0)

	err := svc.HandleCallback(context.Background(), "ref-1", models.PaymentSuccessful)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, pub.messages, 1)
	assert.Equal(t, "ref-1", pub.messages[0]["reference_id"])
}

func TestHandleCallback_IdempotentForRepeatedOutcome(t *testing.T) {
	factory := &fakeFactory{collections: &fakeCollections{}}
	svc, mock, pub := newTestService(t, factory, testConfig())

	session := map[string]string{
		"reference_id": "ref-1",
		"provider":     "mtn",
		"status":       "SUCCESSFUL",
	}
	mock.ExpectHGetAll("payment:ref-1").SetVal(session)
	mock.ExpectHGetAll("payment:ref-1").SetVal(session)

	err := svc.HandleCallback(context.Background(), "ref-1", models.PaymentSuccessful)

	require.NoError(t, err)
	assert.Empty(t, pub.messages, "replayed callbacks must not re-notify")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAPIUser_NotConfigured(t *testing.T) {
	factory := &fakeFactory{collections: &fakeCollections{}}
	svc, _, _ := newTestService(t, factory, testConfig())

	_, err := svc.CreateAPIUser(context.Background())

	assert.ErrorIs(t, err, status.ErrNotConfigured)
}

func TestVerifyCallbackToken(t *testing.T) {
	factory := &fakeFactory{collections: &fakeCollections{}}
	svc, _, _ := newTestService(t, factory, testConfig())

	hash, err := utils.HashToken("topsecret")
	require.NoError(t, err)
	svc.SetCallbackTokenHash(hash)

	assert.True(t, svc.VerifyCallbackToken("topsecret"))
	assert.False(t, svc.VerifyCallbackToken("wrong"))
	assert.False(t, svc.VerifyCallbackToken(""))
}

func TestListingFee(t *testing.T) {
	factory := &fakeFactory{collections: &fakeCollections{}}
	svc, _, _ := newTestService(t, factory, testConfig())

	assert.True(t, svc.ListingFee().Equal(decimal.NewFromInt(5)))
}

func TestCheckPayment_ProviderError(t *testing.T) {
	providerErr := errors.New("provider unavailable")
	factory := &fakeFactory{collections: &fakeCollections{statusErr: providerErr}}
	svc, mock, _ := newTestService(t, factory, testConfig())

	mock.ExpectHGet("payment:ref-1", "provider").SetVal("mtn")

	_, err := svc.CheckPayment(context.Background(), "ref-1")

	assert.ErrorIs(t, err, providerErr)
}

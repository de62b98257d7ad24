package monitoring

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	paymentOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_operations_total",
			Help: "Total payment operations by provider and outcome",
		},
		[]string{"operation", "provider", "status"},
	)

	providerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Duration of mobile-money provider calls",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"provider", "operation"},
	)

	activePollers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_status_pollers_total",
			Help: "Currently running payment status pollers",
		},
	)

	paymentSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "payment_sessions_total",
			Help: "Live payment sessions tracked in Redis",
		},
	)
)

type Monitor struct {
	redis *redis.Client
}

func NewMonitor(redisClient *redis.Client) *Monitor {
	monitor := &Monitor{redis: redisClient}

	// Start metrics collection
	go monitor.collectMetrics()

	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.collectSessionMetrics(context.Background())
	}
}

func (m *Monitor) collectSessionMetrics(ctx context.Context) {
	var total int64
	var cursor uint64

	for {
		keys, next, err := m.redis.Scan(ctx, cursor, "payment:*", 100).Result()
		if err != nil {
			return
		}
		total += int64(len(keys))
		cursor = next
		if cursor == 0 {
			break
		}
	}

	paymentSessions.Set(float64(total))
}

// TrackPaymentOperation counts initiate/status/callback outcomes.
func (m *Monitor) TrackPaymentOperation(operation, provider, status string) {
	paymentOperations.WithLabelValues(operation, provider, status).Inc()
}

// TrackProviderCall records the latency of one provider round trip.
func (m *Monitor) TrackProviderCall(provider, operation string, duration time.Duration) {
	providerRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// PollerStarted / PollerFinished bracket a running status poller.
func (m *Monitor) PollerStarted()  { activePollers.Inc() }
func (m *Monitor) PollerFinished() { activePollers.Dec() }

package monitoring

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	reportGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_generations_total",
			Help: "Total generated reports by kind",
		},
		[]string{"kind"},
	)

	allocationValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocation_validations_total",
			Help: "Capacity validations by outcome",
		},
		[]string{"outcome"},
	)

	exchangeRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "exchange_rate_thb_kes",
			Help: "Last cached THB to KES exchange rate",
		},
	)

	activeEvents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_events_total",
			Help: "Number of published events",
		},
	)

	reportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_duration_seconds",
			Help:    "Time spent generating reports",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"kind"},
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
		ctx := context.Background()

		m.collectRateMetrics(ctx)
		m.collectEventMetrics(ctx)
	}
}

func (m *Monitor) collectRateMetrics(ctx context.Context) {
	cached, err := m.redis.Get(ctx, "fx:thb_kes").Result()
	if err != nil {
		return
	}
	if rate, err := strconv.ParseFloat(cached, 64); err == nil {
		exchangeRate.Set(rate)
	}
}

func (m *Monitor) collectEventMetrics(ctx context.Context) {
	count, err := m.redis.SCard(ctx, "active_events").Result()
	if err != nil {
		return
	}
	activeEvents.Set(float64(count))
}

// TrackReport records one generated report.
func (m *Monitor) TrackReport(kind string, duration time.Duration) {
	reportGenerations.WithLabelValues(kind).Inc()
	reportDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// TrackAllocation records a capacity validation outcome.
func (m *Monitor) TrackAllocation(outcome string) {
	allocationValidations.WithLabelValues(outcome).Inc()
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"event-manager/config"
	"event-manager/internal/status"
	"event-manager/utils"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RateCacheKey is where the last fetched THB->KES rate lives in Redis.
const RateCacheKey = "fx:thb_kes"

// RateSource supplies the THB->KES exchange rate from somewhere external.
type RateSource interface {
	FetchRate(ctx context.Context) (decimal.Decimal, error)
}

// HTTPRateSource pulls the rate from a JSON endpoint of the shape
// {"rate": 3.7}.
type HTTPRateSource struct {
	URL    string
	Client *http.Client
}

func NewHTTPRateSource(url string, timeout time.Duration) *HTTPRateSource {
	return &HTTPRateSource{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPRateSource) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return decimal.Zero, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rate source returned status %d: %w", resp.StatusCode, status.ErrRateUnavailable)
	}

	var body struct {
		Rate json.Number `json:"rate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, err
	}

	rate, err := decimal.NewFromString(body.Rate.String())
	if err != nil {
		return decimal.Zero, status.ErrRateUnavailable
	}
	if rate.Sign() <= 0 {
		return decimal.Zero, status.ErrInvalidRate
	}

	return rate, nil
}

// RateService owns the host side of exchange-rate handling: fetch, cache,
// fallback. The aggregators never call it; they receive the rate as a plain
// parameter.
type RateService struct {
	Redis    *redis.Client
	Source   RateSource
	breaker  *utils.CircuitBreaker
	fallback decimal.Decimal
	ttl      time.Duration
}

func NewRateService(redisClient *redis.Client, source RateSource, cfg *config.Config) *RateService {
	return &RateService{
		Redis:    redisClient,
		Source:   source,
		breaker:  utils.NewCircuitBreaker("exchange-rate"),
		fallback: decimal.NewFromFloat(cfg.DefaultThbToKes),
		ttl:      cfg.ExchangeRateTTL,
	}
}

// CurrentRate returns the cached rate, refreshing on a cache miss. It never
// fails: if both cache and source are unavailable the configured default is
// used, so report generation stays up when the rate feed is down.
func (s *RateService) CurrentRate(ctx context.Context) decimal.Decimal {
	cached, err := s.Redis.Get(ctx, RateCacheKey).Result()
	if err == nil {
		if rate, perr := decimal.NewFromString(cached); perr == nil && rate.Sign() > 0 {
			return rate
		}
	}

	rate, err := s.Refresh(ctx)
	if err != nil {
		slog.Warn("exchange rate refresh failed, using fallback",
			"error", err,
			"fallback", s.fallback,
		)
		return s.fallback
	}

	return rate
}

// Refresh fetches a fresh rate through the circuit breaker and caches it.
func (s *RateService) Refresh(ctx context.Context) (decimal.Decimal, error) {
	if s.Source == nil {
		return decimal.Zero, status.ErrRateUnavailable
	}

	result, err := s.breaker.Execute(ctx, func() (any, error) {
		return s.Source.FetchRate(ctx)
	})
	if err != nil {
		return decimal.Zero, err
	}

	rate, ok := result.(decimal.Decimal)
	if !ok || rate.Sign() <= 0 {
		return decimal.Zero, status.ErrRateUnavailable
	}

	if err := s.Redis.Set(ctx, RateCacheKey, rate.String(), s.ttl).Err(); err != nil {
		slog.Warn("failed to cache exchange rate", "error", err)
	}

	return rate, nil
}

// RefreshLoop keeps the cached rate warm until ctx is cancelled.
func (s *RateService) RefreshLoop(ctx context.Context) {
	interval := s.ttl / 2
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				slog.Warn("scheduled exchange rate refresh failed", "error", err)
			}
		}
	}
}

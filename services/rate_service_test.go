package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"event-manager/config"
	"event-manager/internal/status"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRateSource struct {
	rate decimal.Decimal
	err  error
}

func (s *stubRateSource) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	return s.rate, s.err
}

func setupTestRateService(source RateSource) (*RateService, redismock.ClientMock) {
	client, mock := redismock.NewClientMock()
	cfg := &config.Config{
		DefaultThbToKes: 3.7,
		ExchangeRateTTL: time.Hour,
	}
	return NewRateService(client, source, cfg), mock
}

func TestRateService_CurrentRate_CacheHit(t *testing.T) {
	service, mock := setupTestRateService(nil)
	mock.ExpectGet(RateCacheKey).SetVal("3.55")

	rate := service.CurrentRate(context.Background())

	assertDecimalEqual(t, "3.55", rate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateService_CurrentRate_CacheMissRefreshes(t *testing.T) {
	source := &stubRateSource{rate: dec("3.8")}
	service, mock := setupTestRateService(source)

	mock.ExpectGet(RateCacheKey).RedisNil()
	mock.ExpectSet(RateCacheKey, "3.8", time.Hour).SetVal("OK")

	rate := service.CurrentRate(context.Background())

	assertDecimalEqual(t, "3.8", rate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateService_CurrentRate_FallsBackWhenSourceMissing(t *testing.T) {
	service, mock := setupTestRateService(nil)
	mock.ExpectGet(RateCacheKey).RedisNil()

	rate := service.CurrentRate(context.Background())

	assertDecimalEqual(t, "3.7", rate)
}

func TestRateService_CurrentRate_IgnoresCorruptCacheValue(t *testing.T) {
	source := &stubRateSource{rate: dec("4.1")}
	service, mock := setupTestRateService(source)

	mock.ExpectGet(RateCacheKey).SetVal("not-a-number")
	mock.ExpectSet(RateCacheKey, "4.1", time.Hour).SetVal("OK")

	rate := service.CurrentRate(context.Background())

	assertDecimalEqual(t, "4.1", rate)
}

func TestRateService_Refresh_SourceError(t *testing.T) {
	source := &stubRateSource{err: status.ErrRateUnavailable}
	service, _ := setupTestRateService(source)

	_, err := service.Refresh(context.Background())
	assert.Error(t, err)
}

func TestRateService_Refresh_NoSource(t *testing.T) {
	service, _ := setupTestRateService(nil)

	_, err := service.Refresh(context.Background())
	assert.ErrorIs(t, err, status.ErrRateUnavailable)
}

func TestHTTPRateSource_FetchRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rate": 3.65}`))
	}))
	defer server.Close()

	source := NewHTTPRateSource(server.URL, 5*time.Second)

	rate, err := source.FetchRate(context.Background())
	require.NoError(t, err)
	assertDecimalEqual(t, "3.65", rate)
}

func TestHTTPRateSource_FetchRate_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewHTTPRateSource(server.URL, 5*time.Second)

	_, err := source.FetchRate(context.Background())
	assert.ErrorIs(t, err, status.ErrRateUnavailable)
}

func TestHTTPRateSource_FetchRate_NonPositiveRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rate": 0}`))
	}))
	defer server.Close()

	source := NewHTTPRateSource(server.URL, 5*time.Second)

	_, err := source.FetchRate(context.Background())
	assert.ErrorIs(t, err, status.ErrInvalidRate)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"courier-dispatch/internal/config"
	"courier-dispatch/internal/geocode"
	"courier-dispatch/internal/jobs"
	"courier-dispatch/internal/service/dispatch"
	"courier-dispatch/internal/service/ledger"
	"courier-dispatch/internal/service/orders"
	"courier-dispatch/internal/transport/kafka"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:      0,
		Log:       config.Log{Backend: "slog", Level: "error"},
		Storage:   config.BackendMemory,
		Index:     config.DefaultIndex(),
		Redis:     config.DefaultRedis(),
		Dispatch:  config.DefaultDispatch(),
		Kafka:     config.DefaultKafka(),
		RateLimit: config.DefaultRateLimit(),
	}
}

func testBuilder(cfg *config.Config) *ContainerBuilder {
	return NewContainerBuilder().
		WithConfig(func() (*config.Config, error) { return cfg, nil }).
		WithDBConnect(func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error) {
			return nil, errors.New("database must not be used")
		}).
		WithRedisConnect(func(context.Context, config.Redis) (*redis.Client, error) {
			return nil, errors.New("redis must not be used")
		}).
		WithLogFatalf(func(format string, args ...interface{}) {
			panic(fmt.Sprintf(format, args...))
		})
}

func TestMustBuild_ServesRoutes(t *testing.T) {
	c := testBuilder(testConfig()).MustBuild(context.Background())

	err := c.Invoke(func(srv *http.Server) {
		require.Equal(t, ":0", srv.Addr)
		require.Greater(t, srv.ReadHeaderTimeout, time.Duration(0))
		require.Greater(t, srv.WriteTimeout, time.Duration(0))

		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/shops",
			strings.NewReader(`{"name":"Kale Market","address_text":"İskele Cd. 1","location":{"lng":32.0,"lat":36.54}}`)))
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "http_requests_total")
	})
	require.NoError(t, err)
}

func TestMustBuild_GeocoderDisabledWithoutBaseURL(t *testing.T) {
	c := testBuilder(testConfig()).MustBuild(context.Background())

	require.NoError(t, c.Invoke(func(g ledger.Geocoder) {
		require.IsType(t, geocode.Disabled{}, g)
	}))
}

func TestMustBuild_GeocoderRetriesNominatim(t *testing.T) {
	cfg := testConfig()
	cfg.Geocoder = config.DefaultGeocoder()
	c := testBuilder(cfg).MustBuild(context.Background())

	require.NoError(t, c.Invoke(func(g ledger.Geocoder) {
		require.IsType(t, &geocode.Retrying{}, g)
	}))
}

func TestMustBuild_KafkaDisabledUsesNopPublisher(t *testing.T) {
	c := testBuilder(testConfig()).MustBuild(context.Background())

	require.NoError(t, c.Invoke(func(p eventPublisher) {
		require.IsType(t, kafka.NopPublisher{}, p)
	}))
}

func TestMustBuild_UnknownStorageIsFatal(t *testing.T) {
	cfg := testConfig()
	cfg.Storage = "cassandra"

	// providers run lazily; the failure surfaces on Invoke
	c := testBuilder(cfg).MustBuild(context.Background())
	err := c.Invoke(func(*dispatch.Service) {})
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown storage backend "cassandra"`)
}

func TestMustBuild_RedisIndexConnectError(t *testing.T) {
	cfg := testConfig()
	cfg.Index.Backend = config.BackendRedis

	c := testBuilder(cfg).MustBuild(context.Background())
	err := c.Invoke(func(*dispatch.Service) {})
	require.Error(t, err)
	require.Contains(t, err.Error(), "redis must not be used")
}

func TestMustBuildWorker_ProvidesLoops(t *testing.T) {
	c := testBuilder(testConfig()).MustBuildWorker(context.Background())

	err := c.Invoke(func(p *orders.Processor, consumer *kafka.Consumer, sweep *jobs.SweepJob) {
		require.NotNil(t, p)
		require.Nil(t, consumer, "no brokers configured")
		require.NotNil(t, sweep)
	})
	require.NoError(t, err)
}

func TestBuild_WrapsStepError(t *testing.T) {
	_, err := testBuilder(testConfig()).build(context.Background(), func(*dig.Container) error {
		return errors.New("boom")
	})
	require.EqualError(t, err, "edge: boom")
}

func TestMustBuild_DuplicateProviderIsFatal(t *testing.T) {
	var fatal string
	b := testBuilder(testConfig()).WithLogFatalf(func(format string, args ...interface{}) {
		fatal = fmt.Sprintf(format, args...)
	})
	_, err := b.build(context.Background(), func(c *dig.Container) error {
		return registerService(c)
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "edge:")

	b.logFatalf("failed to build container: %v", err)
	require.Contains(t, fatal, "failed to build container")
}

func TestRegister_ReusesExistingCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	first, err := newDispatchMetrics(reg)
	require.NoError(t, err)
	second, err := newDispatchMetrics(reg)
	require.NoError(t, err)

	second.Attempts.Inc()
	require.Same(t, first.Attempts, second.Attempts)

	h1, err := newHTTPMetrics(reg)
	require.NoError(t, err)
	h2, err := newHTTPMetrics(reg)
	require.NoError(t, err)
	require.Same(t, h1.Requests, h2.Requests)
}

func TestRegister_ConflictingCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(prometheus.NewGauge(prometheus.GaugeOpts{Name: "geocoder_retries_total", Help: "x"})))

	_, err := newGeocoderRetries(reg)
	require.Error(t, err)
}

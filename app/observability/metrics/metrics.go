package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	RegisterRequestsTotal         metric.Int64Counter
	LoginRequestsTotal            metric.Int64Counter
	PropertySearchesTotal         metric.Int64Counter
	PropertySearchDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal            metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments once. It gets
// the Meter from the globally configured MeterProvider, so the tracer
// package must be initialized first.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("rental-marketplace")
		var err error
		m := &AppMetrics{}

		m.RegisterRequestsTotal, err = meter.Int64Counter(
			"register_requests_total",
			metric.WithDescription("Total number of register requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create register_requests_total: %v", err)
		}

		m.LoginRequestsTotal, err = meter.Int64Counter(
			"login_requests_total",
			metric.WithDescription("Total number of login requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create login_requests_total: %v", err)
		}

		m.PropertySearchesTotal, err = meter.Int64Counter(
			"property_searches_total",
			metric.WithDescription("Total number of property search requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create property_searches_total: %v", err)
		}

		m.PropertySearchDurationSeconds, err = meter.Float64Histogram(
			"property_search_duration_seconds",
			metric.WithDescription("Duration of property search requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create property_search_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance, initializing
// against the current MeterProvider on first use (a no-op provider in
// tests).
func Get() *AppMetrics {
	if appMetrics == nil {
		InitAppMetrics()
	}
	return appMetrics
}

package app

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	httpmw "courier-dispatch/internal/http/middleware"
	"courier-dispatch/internal/metrics"
)

type (
	geocoderRetries  struct{ prometheus.Counter }
	rateLimitCounter struct{ prometheus.Counter }
)

func newRegisterer() prometheus.Registerer {
	return prometheus.DefaultRegisterer
}

// register adds c to reg. If an equal collector is already there (a second
// container in the same process), the existing one is returned instead.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}

func newDispatchMetrics(reg prometheus.Registerer) (*metrics.Dispatch, error) {
	m := metrics.NewDispatch()
	var err error
	for _, c := range []*prometheus.Counter{&m.Attempts, &m.ReservationConflicts, &m.Assigned, &m.Unassigned} {
		if *c, err = register(reg, *c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func newHTTPMetrics(reg prometheus.Registerer) (*httpmw.HTTPMetrics, error) {
	m := httpmw.NewHTTPMetrics()
	var err error
	if m.Requests, err = register(reg, m.Requests); err != nil {
		return nil, err
	}
	if m.Duration, err = register(reg, m.Duration); err != nil {
		return nil, err
	}
	return m, nil
}

func newGeocoderRetries(reg prometheus.Registerer) (geocoderRetries, error) {
	c, err := register(reg, metrics.NewGeocoderRetriesTotal())
	return geocoderRetries{c}, err
}

func newRateLimitCounter(reg prometheus.Registerer) (rateLimitCounter, error) {
	c, err := register(reg, metrics.NewRateLimitExceededTotal())
	return rateLimitCounter{c}, err
}

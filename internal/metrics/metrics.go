package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGeocoderRetriesTotal returns a Prometheus counter for the number of retried geocoding lookups
func NewGeocoderRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geocoder_retries_total",
		Help: "Total number of retry attempts performed by the geocoder client",
	})
}

// Dispatch groups the counters reported by the dispatcher.
type Dispatch struct {
	Attempts             prometheus.Counter
	ReservationConflicts prometheus.Counter
	Assigned             prometheus.Counter
	Unassigned           prometheus.Counter
}

// NewDispatch creates unregistered dispatcher counters.
func NewDispatch() *Dispatch {
	return &Dispatch{
		Attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_attempts_total",
			Help: "Total number of nearest-courier lookups made while dispatching",
		}),
		ReservationConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_reservation_conflicts_total",
			Help: "Total number of candidates lost to a concurrent reservation",
		}),
		Assigned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_assigned_total",
			Help: "Total number of orders assigned to a courier",
		}),
		Unassigned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_unassigned_total",
			Help: "Total number of dispatches that left the order pending",
		}),
	}
}

// Collectors returns the counters for registration.
func (d *Dispatch) Collectors() []prometheus.Collector {
	return []prometheus.Collector{d.Attempts, d.ReservationConflicts, d.Assigned, d.Unassigned}
}

// Register adds every collector to reg.
func Register(reg prometheus.Registerer, cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

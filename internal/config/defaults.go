package config

import "time"

const defaultPort = 8080

var defaultLog = Log{Backend: "slog", Level: "info"}

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "dispatch_db",
}

var defaultIndex = Index{
	Backend:     BackendMemory,
	CellDegrees: 0.05,
}

var defaultRedis = Redis{Addr: "127.0.0.1:6379"}

var defaultDispatch = Dispatch{
	RadiusMeters:           50_000,
	NearbyRadiusMeters:     100_000,
	ShopNearbyRadiusMeters: 20_000,
	MaxAttempts:            3,
	SweepSpec:              "@every 30s",
	SweepBatch:             50,
	OperationTimeout:       3 * time.Second,
}

var defaultGeocoder = Geocoder{
	BaseURL:     "https://nominatim.openstreetmap.org",
	UserAgent:   "DeliveryPro/1.0",
	Timeout:     5 * time.Second,
	MaxAttempts: 3,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    time.Second,
}

var defaultKafka = Kafka{
	GroupID: "courier-dispatch-worker",
	Topic:   "dispatch.events",
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       5,
	Burst:      10,
	TTL:        5 * time.Minute,
	MaxBuckets: 10_000,
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultLog returns the default logging settings.
func DefaultLog() Log {
	return defaultLog
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultIndex returns the default proximity index settings.
func DefaultIndex() Index {
	return defaultIndex
}

// DefaultRedis returns the default Redis settings.
func DefaultRedis() Redis {
	return defaultRedis
}

// DefaultDispatch returns the default dispatch settings.
func DefaultDispatch() Dispatch {
	return defaultDispatch
}

// DefaultGeocoder returns the default geocoder settings.
func DefaultGeocoder() Geocoder {
	return defaultGeocoder
}

// DefaultKafka returns the default Kafka settings; brokers are empty.
func DefaultKafka() Kafka {
	return defaultKafka
}

// DefaultRateLimit returns the default rate limit settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

package logx

import "time"

// Logger is the structured logger threaded through services, handlers and workers.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

// Field represents a single structured log field (key-value pair).
type Field struct {
	Key   string
	Value any
}

// Any creates a field with an arbitrary value type.
func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field.
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Float64 creates a float64 field.
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a time.Duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// OrderID, CourierID and ShopID keep entity keys uniform across log lines.
func OrderID(id int64) Field { return Field{Key: "order_id", Value: id} }

func CourierID(id int64) Field { return Field{Key: "courier_id", Value: id} }

func ShopID(id int64) Field { return Field{Key: "shop_id", Value: id} }

// Err creates an "error" field. A nil error is logged as an empty string.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: ""}
	}
	return Field{Key: "error", Value: err.Error()}
}

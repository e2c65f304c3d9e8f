package kafka

import "errors"

// PermanentError marks a handler failure that retrying the same event cannot fix,
// e.g. the order it names no longer exists. The consumer skips such events.
type PermanentError struct {
	Err error
}

func (e PermanentError) Error() string {
	if e.Err == nil {
		return "event cannot be processed"
	}
	return "event cannot be processed: " + e.Err.Error()
}

func (e PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so the consumer does not retry it. A nil err stays nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return PermanentError{Err: err}
}

// IsPermanent reports whether err, or anything it wraps, is a PermanentError.
func IsPermanent(err error) bool {
	var perm PermanentError
	return errors.As(err, &perm)
}

// Package testlog records logx entries so tests can assert on what services logged.
package testlog

import (
	"sync"

	"courier-dispatch/internal/logx"
)

// Entry is one recorded log line.
type Entry struct {
	Level  string
	Msg    string
	Fields []logx.Field
}

// Field returns the value of the named field, if present.
func (e Entry) Field(key string) (any, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Recorder is safe for concurrent use; dispatch tests log from many goroutines.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// New returns an empty Recorder.
func New() *Recorder { return &Recorder{} }

// Logger returns a logx.Logger writing into r.
func (r *Recorder) Logger() logx.Logger { return recording{r: r} }

// Entries returns a snapshot of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Filter returns the entries logged with msg, in order.
func (r *Recorder) Filter(msg string) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Msg == msg {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) record(level, msg string, base, fields []logx.Field) {
	all := make([]logx.Field, 0, len(base)+len(fields))
	all = append(all, base...)
	all = append(all, fields...)

	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Fields: all})
	r.mu.Unlock()
}

type recording struct {
	r    *Recorder
	base []logx.Field
}

var _ logx.Logger = recording{}

func (l recording) Debug(msg string, f ...logx.Field) { l.r.record("debug", msg, l.base, f) }
func (l recording) Info(msg string, f ...logx.Field)  { l.r.record("info", msg, l.base, f) }
func (l recording) Warn(msg string, f ...logx.Field)  { l.r.record("warn", msg, l.base, f) }
func (l recording) Error(msg string, f ...logx.Field) { l.r.record("error", msg, l.base, f) }
func (l recording) Sync() error                       { return nil }

func (l recording) With(f ...logx.Field) logx.Logger {
	base := make([]logx.Field, 0, len(l.base)+len(f))
	base = append(base, l.base...)
	base = append(base, f...)
	return recording{r: l.r, base: base}
}

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"courier-dispatch/internal/jobs"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/transport/kafka"
)

type noopSweeper struct{}

func (noopSweeper) SweepPending(context.Context, int) (int, error) { return 0, nil }

type failingConsumer struct{ err error }

func (f failingConsumer) Run(context.Context) error { return f.err }

func TestWorkerRunner_MustRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		wantPanic bool
	}{
		{name: "clean exit", err: nil},
		{name: "cancelled", err: context.Canceled},
		{name: "wrapped cancel", err: errors.Join(errors.New("consume"), context.Canceled)},
		{name: "failure", err: errors.New("broker gone"), wantPanic: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &WorkerRunner{runFn: func(*dig.Container) error { return tt.err }}
			if tt.wantPanic {
				require.Panics(t, func() { r.MustRun(dig.New()) })
				return
			}
			require.NotPanics(t, func() { r.MustRun(dig.New()) })
		})
	}
}

func TestSuperviseWorker_NilConsumerWaitsForCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var consumer *kafka.Consumer
	sweep := jobs.NewSweepJob(noopSweeper{}, "@every 1h", 10, time.Second, logx.Nop())
	require.NoError(t, superviseWorker(ctx, consumer, sweep))
}

func TestSuperviseWorker_ConsumerFailureStopsSweep(t *testing.T) {
	t.Parallel()

	sweep := jobs.NewSweepJob(noopSweeper{}, "@every 1h", 10, time.Second, logx.Nop())
	err := superviseWorker(context.Background(), failingConsumer{err: errors.New("broker gone")}, sweep)
	require.EqualError(t, err, "broker gone")
}

func TestRunWorker_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testBuilder(testConfig()).MustBuildWorker(ctx)
	require.NotPanics(t, func() { NewWorkerRunner().MustRun(c) })
}

// Package jobs holds scheduled background work of the worker.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"courier-dispatch/internal/logx"
)

// Sweeper re-dispatches pending orders.
type Sweeper interface {
	SweepPending(ctx context.Context, limit int) (int, error)
}

// SweepJob periodically hands pending orders back to the dispatcher.
type SweepJob struct {
	sweeper Sweeper
	spec    string
	batch   int
	timeout time.Duration
	logger  logx.Logger
}

// NewSweepJob creates a sweep running on spec (cron syntax or a descriptor
// such as "@every 30s"). Each run is bounded by timeout.
func NewSweepJob(s Sweeper, spec string, batch int, timeout time.Duration, logger logx.Logger) *SweepJob {
	if logger == nil {
		logger = logx.Nop()
	}
	return &SweepJob{
		sweeper: s,
		spec:    spec,
		batch:   batch,
		timeout: timeout,
		logger:  logger.With(logx.String("component", "sweep_job")),
	}
}

// Run schedules the sweep and blocks until ctx is cancelled, then waits for
// a run in progress to finish.
func (j *SweepJob) Run(ctx context.Context) error {
	log := cronLogger{j.logger}
	c := cron.New(cron.WithLogger(log), cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)))
	if _, err := c.AddFunc(j.spec, func() { j.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule sweep %q: %w", j.spec, err)
	}

	c.Start()
	j.logger.Info("sweep job started", logx.String("spec", j.spec), logx.Int("batch", j.batch))

	<-ctx.Done()
	<-c.Stop().Done()
	j.logger.Info("sweep job stopped")
	return nil
}

// RunOnce performs a single sweep.
func (j *SweepJob) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	start := time.Now()
	n, err := j.sweeper.SweepPending(ctx, j.batch)
	if err != nil {
		j.logger.Error("sweep failed", logx.Err(err))
		return
	}
	j.logger.Debug("sweep done", logx.Int("assigned", n), logx.Duration("took", time.Since(start)))
}

// cronLogger adapts logx.Logger to cron.Logger.
type cronLogger struct{ l logx.Logger }

func (c cronLogger) Info(msg string, kv ...any) {
	c.l.Debug("cron: "+msg, fields(kv)...)
}

func (c cronLogger) Error(err error, msg string, kv ...any) {
	c.l.Error("cron: "+msg, append(fields(kv), logx.Err(err))...)
}

func fields(kv []any) []logx.Field {
	out := make([]logx.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		out = append(out, logx.Any(key, kv[i+1]))
	}
	return out
}

package daemon

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/smykla-skalski/slack-code/pkg/ipc"
	"github.com/smykla-skalski/slack-code/pkg/logger"
)

// Sweep asks the loop to remove expired sessions and waits for the result.
// It must be called while Run is active.
func (d *Daemon) Sweep(ctx context.Context) ([]uuid.UUID, error) {
	req := sweepRequest{done: make(chan []uuid.UUID, 1)}

	select {
	case d.maintenance <- req:
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "queueing sweep")
	}

	select {
	case removed := <-req.done:
		return removed, nil
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "waiting for sweep")
	}
}

// requestSweep queues a sweep unless one is already pending.
func (d *Daemon) requestSweep() {
	select {
	case d.maintenance <- sweepRequest{}:
	default:
		d.logger.Debug("sweep already pending")
	}
}

// sweep runs on the loop: it removes expired sessions and broadcasts each
// removal.
func (d *Daemon) sweep() []uuid.UUID {
	removed := d.store.SweepExpired(d.cfg.GetRetention().GetMaxAge())

	for _, id := range removed {
		d.broker.Publish(ipc.SessionRemovedEvent(id))
	}

	d.metrics.SessionsSwept(len(removed))
	d.metrics.SetSessions(d.store.Len())

	if len(removed) > 0 {
		d.logger.Info("expired sessions removed", "count", len(removed))
	}

	return removed
}

// runSweeper schedules sweeps on the configured cron spec until ctx is done.
// An empty spec disables scheduling. An unparsable spec is logged and leaves
// only on-demand sweeps.
func (d *Daemon) runSweeper(ctx context.Context) error {
	spec := d.cfg.GetRetention().GetSweepSchedule()
	if spec == "" {
		d.logger.Debug("retention sweep disabled")

		return nil
	}

	c := cron.New(cron.WithLogger(cronLogger{log: d.logger.With("component", "sweeper")}))

	if _, err := c.AddFunc(spec, d.requestSweep); err != nil {
		d.logger.Error("invalid sweep schedule, periodic sweeping disabled",
			"schedule", spec,
			"error", err.Error(),
		)

		return nil
	}

	c.Start()
	d.logger.Info("retention sweep scheduled", "schedule", spec)

	<-ctx.Done()
	<-c.Stop().Done()

	return nil
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "error", err.Error())...)
}

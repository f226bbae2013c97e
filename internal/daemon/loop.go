package daemon

import (
	"context"
	"os"

	"github.com/smykla-skalski/slack-code/pkg/ipc"
	"github.com/smykla-skalski/slack-code/pkg/session"
)

// loop services one source per iteration until a termination signal, ctx
// cancellation, or every source closing.
func (d *Daemon) loop(ctx context.Context, signals <-chan os.Signal) error {
	d.logger.Info("event loop started")

	hooks := d.hooks
	commands := d.commands

	for hooks != nil || commands != nil {
		select {
		case ev, ok := <-hooks:
			if !ok {
				hooks = nil

				continue
			}

			d.HandleHook(ctx, ev)

		case cmd, ok := <-commands:
			if !ok {
				commands = nil

				continue
			}

			d.HandleCommand(cmd)

		case req := <-d.maintenance:
			removed := d.sweep()
			if req.done != nil {
				req.done <- removed
			}

		case sig, ok := <-signals:
			if ok {
				d.logger.Info("termination signal received", "signal", sig.String())
			}

			return nil

		case <-ctx.Done():
			return nil
		}
	}

	d.logger.Info("all inbound channels closed")

	return nil
}

// HandleHook applies one hook event, mirrors it to Slack and broadcasts the
// updated session. Notifier failures are logged and broadcast as errors.
func (d *Daemon) HandleHook(ctx context.Context, ev ipc.HookEvent) {
	update, ok := d.store.ApplyHookEvent(ev)

	d.metrics.SetSessions(d.store.Len())

	if !ok {
		return
	}

	sess := update.Session

	var followUp []ipc.DaemonEvent

	if d.notifier != nil {
		followUp = d.notify(ctx, &sess, update.StatusChanged)
	}

	d.broker.Publish(ipc.SessionUpdatedEvent(sess))

	for _, ev := range followUp {
		d.broker.Publish(ev)
	}
}

// notify creates the session thread when missing, or posts a status reply
// when the status changed. A thread that failed to be created is retried on
// the next event of the session.
func (d *Daemon) notify(ctx context.Context, sess *session.Session, statusChanged bool) []ipc.DaemonEvent {
	ctx, cancel := context.WithTimeout(ctx, d.notifyTimeout)
	defer cancel()

	log := d.logger.With("session", sess.ID.String())

	if !sess.HasThread() {
		thread, err := d.notifier.CreateThread(ctx, *sess)
		if err != nil {
			log.Error("creating slack thread failed", "error", err.Error())

			return []ipc.DaemonEvent{ipc.ErrorEvent("creating slack thread: " + err.Error())}
		}

		d.store.SetNotificationThread(sess.ID, thread)
		sess.SlackThread = &thread

		return []ipc.DaemonEvent{ipc.SlackMessageSentEvent(sess.ID, thread.ParentTS)}
	}

	if !statusChanged {
		return nil
	}

	if err := d.notifier.PostUpdate(ctx, *sess.SlackThread, *sess); err != nil {
		log.Error("posting slack update failed", "error", err.Error())

		return []ipc.DaemonEvent{ipc.ErrorEvent("posting slack update: " + err.Error())}
	}

	return []ipc.DaemonEvent{ipc.SlackMessageSentEvent(sess.ID, sess.SlackThread.ParentTS)}
}

// HandleCommand answers one observer command on the broadcast.
func (d *Daemon) HandleCommand(cmd ipc.Command) {
	switch cmd {
	case ipc.GetSessions:
		d.broker.Publish(ipc.SessionListEvent(d.store.ListSessions()))

	case ipc.GetConfig:
		d.broker.Publish(ipc.ConfigResponseEvent(d.cfg.Masked()))

	case ipc.Ping:
		d.broker.Publish(ipc.StatusEvent(ipc.Connected))

	case ipc.Subscribe, ipc.Unsubscribe:
		d.logger.Debug("subscription command reached the loop", "command", cmd.String())

	default:
		d.logger.Debug("unknown command", "command", cmd.String())
	}
}

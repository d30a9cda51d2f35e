package app

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/multisig"
	"github.com/tendermint/tendermint/libs/log"
)

// Sink receives committed events, oldest first. Publishing happens after the
// commit, so a failing sink cannot roll back the state change. The app
// logs the failure and carries on.
//
// Sinks are never called concurrently, but not necessarily from the
// goroutine that committed the events. A sink may call back into the app.
// Events committed by such a call are published after the current batch.
type Sink interface {
	Name() string
	Publish(ctx custody.Context, events []*EventView) error
}

// LogSink writes each event to the logger.
type LogSink struct {
	Logger log.Logger
}

var _ Sink = (*LogSink)(nil)

func (LogSink) Name() string { return "log" }

func (s LogSink) Publish(ctx custody.Context, events []*EventView) error {
	for _, e := range events {
		s.Logger.Info("event",
			"seq", e.Seq,
			"kind", e.Kind,
			"transaction", e.TransactionID)
	}
	return nil
}

// publish hands events to every sink. Only the drainer calls it.
func (a *App) publish(ctx custody.Context, events []*multisig.Event) {
	if len(events) == 0 || len(a.sinks) == 0 {
		return
	}
	views := make([]*EventView, len(events))
	for i, e := range events {
		views[i] = NewEventView(e)
	}
	for _, s := range a.sinks {
		err := publishTo(ctx, s, views)
		a.metrics.published(s.Name(), len(views), err)
		if err != nil {
			a.logger.Error("cannot publish events",
				"sink", s.Name(),
				"first", views[0].Seq,
				"err", err)
		}
	}
}

func publishTo(ctx custody.Context, s Sink, events []*EventView) (err error) {
	defer errors.Recover(&err)
	return s.Publish(ctx, events)
}

package app

import (
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/multisig"
	"github.com/tendermint/tendermint/libs/log"
)

// App is the serialized host of a multisig wallet.
type App struct {
	// mu serializes access to the store.
	mu sync.Mutex

	// queue guards pending and draining. Events are queued in commit order
	// while mu is held and published by a single drainer at a time.
	queue    sync.Mutex
	pending  []*multisig.Event
	draining bool

	db         custody.CacheableKVStore
	ctrl       *multisig.Controller
	dispatcher multisig.Dispatcher
	sinks      []Sink
	metrics    *Metrics
	logger     log.Logger
}

// NewApp returns an app that keeps its state in db. By default executed
// transactions are only logged and events are not published anywhere.
func NewApp(db custody.CacheableKVStore) *App {
	return &App{
		db:         db,
		ctrl:       multisig.NewController(),
		dispatcher: multisig.LogDispatcher{},
		logger:     log.NewNopLogger(),
	}
}

// WithLogger sets the logger on the App and returns it,
// to make it easy to chain in initialization
func (a *App) WithLogger(logger log.Logger) *App {
	a.logger = logger.With("module", "app")
	return a
}

// WithDispatcher sets the collaborator that performs the transfer of
// executed transactions.
func (a *App) WithDispatcher(d multisig.Dispatcher) *App {
	a.dispatcher = d
	return a
}

// WithSinks adds event sinks. Events are published to all of them.
func (a *App) WithSinks(sinks ...Sink) *App {
	a.sinks = append(a.sinks, sinks...)
	return a
}

func (a *App) WithMetrics(m *Metrics) *App {
	a.metrics = m
	return a
}

// Initialized returns true if the wallet owner set was registered.
func (a *App) Initialized() (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.ctrl.Wallet(a.db)
	switch {
	case err == nil:
		return true, nil
	case multisig.ErrNotInitialized.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// InitFromGenesis registers the owner set described by the genesis options.
func (a *App) InitFromGenesis(ctx custody.Context, opts custody.Options) error {
	initializer := multisig.Initializer{Controller: a.ctrl}
	return a.deliver(ctx, "init", func(ctx custody.Context, db custody.KVStore) error {
		return initializer.FromGenesis(ctx, opts, db)
	})
}

// Submit proposes a new transaction and returns its ID.
func (a *App) Submit(
	ctx custody.Context,
	caller, destination custody.Address,
	amount *uint256.Int,
	payload []byte,
) (uint64, error) {
	var id uint64
	err := a.deliver(ctx, "submit", func(ctx custody.Context, db custody.KVStore) error {
		var err error
		id, err = a.ctrl.SubmitTransaction(ctx, db, caller, destination, amount, payload)
		return err
	})
	return id, err
}

// Confirm records the confirmation of caller.
func (a *App) Confirm(ctx custody.Context, caller custody.Address, id uint64) error {
	return a.deliver(ctx, "confirm", func(ctx custody.Context, db custody.KVStore) error {
		return a.ctrl.ConfirmTransaction(ctx, db, caller, id)
	})
}

// Execute marks the transaction as executed and dispatches it. Anyone can
// execute a confirmed transaction, caller is only logged and can be nil.
//
// The dispatch outcome does not change the result of this call. A failed
// dispatch is recorded and can be read with Transaction.
func (a *App) Execute(ctx custody.Context, caller custody.Address, id uint64) (*multisig.Transaction, error) {
	var tx *multisig.Transaction
	err := a.deliver(ctx, "execute", func(ctx custody.Context, db custody.KVStore) error {
		var err error
		if caller != nil {
			ctx = custody.WithLogInfo(ctx, "caller", caller)
		}
		tx, err = a.ctrl.ExecuteTransaction(ctx, db, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.dispatch(ctx, tx)
	return tx, nil
}

// dispatch hands the executed transaction over to the dispatcher and
// records the outcome. It must be called without holding the lock, so that
// the dispatcher can call back into the app.
func (a *App) dispatch(ctx custody.Context, tx *multisig.Transaction) {
	dctx := custody.WithLogger(ctx, a.logger.With("op", "dispatch"))
	dispatchErr := callDispatcher(dctx, a.dispatcher, tx)
	a.metrics.dispatched(dispatchErr)
	err := a.deliver(ctx, "dispatch", func(ctx custody.Context, db custody.KVStore) error {
		return a.ctrl.RecordDispatch(ctx, db, tx.ID, dispatchErr)
	})
	if err != nil {
		a.logger.Error("cannot record dispatch", "id", tx.ID, "err", err)
	}
}

func callDispatcher(ctx custody.Context, d multisig.Dispatcher, tx *multisig.Transaction) (err error) {
	defer errors.Recover(&err)
	return d.Dispatch(ctx, tx)
}

// deliver runs fn on a cache of the committed store. The cache is written
// only if fn succeeds. Newly committed events are published after the lock
// is released.
func (a *App) deliver(ctx custody.Context, op string, fn func(custody.Context, custody.KVStore) error) error {
	start := time.Now()
	ctx = custody.WithLogger(ctx, a.logger.With("op", op))

	a.mu.Lock()
	events, err := a.commit(ctx, fn)
	a.enqueue(events)
	a.mu.Unlock()

	a.logDuration(ctx, start, op, err)
	a.metrics.observe(op, start, err)

	a.drain(ctx)
	return err
}

// enqueue must be called with mu held, so that the queue follows the commit
// order.
func (a *App) enqueue(events []*multisig.Event) {
	if len(events) == 0 {
		return
	}
	a.queue.Lock()
	a.pending = append(a.pending, events...)
	a.queue.Unlock()
}

// drain publishes queued events until the queue is empty. If another call is
// already draining, it returns at once and that call publishes the events.
// No lock is held while the sinks run, so a sink may call back into the app.
func (a *App) drain(ctx custody.Context) {
	a.queue.Lock()
	if a.draining {
		a.queue.Unlock()
		return
	}
	a.draining = true
	for len(a.pending) > 0 {
		events := a.pending
		a.pending = nil
		a.queue.Unlock()
		a.publish(ctx, events)
		a.queue.Lock()
	}
	a.draining = false
	a.queue.Unlock()
}

// commit must be called with the lock held.
func (a *App) commit(ctx custody.Context, fn func(custody.Context, custody.KVStore) error) ([]*multisig.Event, error) {
	last, err := a.ctrl.LastEvent(a.db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read event sequence")
	}

	cache := a.db.CacheWrap()
	if err := run(ctx, cache, fn); err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "cannot commit")
	}

	events, err := a.ctrl.Events(a.db, last, multisig.MaxEventsPage)
	if err != nil {
		a.logger.Error("cannot read committed events", "err", err)
		return nil, nil
	}
	return events, nil
}

// run executes fn and turns a panic into an error.
func run(ctx custody.Context, db custody.KVStore, fn func(custody.Context, custody.KVStore) error) (err error) {
	defer errors.Recover(&err)
	return fn(ctx, db)
}

// logDuration writes information about the time and result to the logger.
// Failed operations are logged at info level, they are caused by the
// caller and are not a problem of the app itself.
func (a *App) logDuration(ctx custody.Context, start time.Time, op string, err error) {
	delta := time.Since(start)
	logger := a.logger.With("op", op, "duration", delta/time.Microsecond)
	switch {
	case err == nil:
		logger.Debug("operation committed")
	case errors.ErrPanic.Is(err) || errors.ErrDatabase.Is(err):
		logger.Error("operation failed", "err", err)
	default:
		logger.Info("operation rejected", "err", err)
	}
}

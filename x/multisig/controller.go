package multisig

import (
	"github.com/holiman/uint256"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Controller is the approval state machine. It validates every operation
// against the owner registry, the transaction store and the confirmation
// ledger and applies at most one atomic state change.
//
// Controller holds no state of its own. All state lives in the store that
// is passed to each call, and the caller must serialize the calls. Methods
// that change state require a store that implements custody.CacheableKVStore
// and fail with errors.ErrHuman otherwise.
type Controller struct {
	owners        *OwnerRegistry
	transactions  *TransactionStore
	confirmations *ConfirmationLedger
	events        *EventLog
	dispatches    *DispatchLog
}

// NewController returns a controller with all components wired together.
func NewController() *Controller {
	owners := NewOwnerRegistry()
	events := NewEventLog()
	return &Controller{
		owners:        owners,
		transactions:  NewTransactionStore(owners, events),
		confirmations: NewConfirmationLedger(owners),
		events:        events,
		dispatches:    NewDispatchLog(),
	}
}

// Initialize registers the owner set and the required number of
// confirmations, using the default payload limit.
func (c *Controller) Initialize(ctx custody.Context, db custody.KVStore, owners []custody.Address, required uint32) error {
	return c.InitializeWallet(ctx, db, &Wallet{
		Owners:                owners,
		RequiredConfirmations: required,
	})
}

// InitializeWallet registers given wallet configuration. A zero payload
// limit is replaced with DefaultMaxPayloadSize.
func (c *Controller) InitializeWallet(ctx custody.Context, db custody.KVStore, w *Wallet) error {
	if w.MaxPayloadSize == 0 {
		w.MaxPayloadSize = DefaultMaxPayloadSize
	}
	err := savepoint(db, func(db custody.KVStore) error {
		return c.owners.Initialize(db, w)
	})
	if err != nil {
		custody.GetLogger(ctx).Debug("wallet initialization rejected", "err", err)
		return err
	}
	custody.GetLogger(ctx).Info("wallet initialized",
		"owners", len(w.Owners),
		"required", w.RequiredConfirmations)
	return nil
}

// SubmitTransaction stores a new transaction proposed by caller and returns
// its ID. Only an owner can submit.
func (c *Controller) SubmitTransaction(
	ctx custody.Context,
	db custody.KVStore,
	caller, destination custody.Address,
	amount *uint256.Int,
	payload []byte,
) (uint64, error) {
	var id uint64
	err := savepoint(db, func(db custody.KVStore) error {
		var err error
		id, err = c.transactions.Submit(db, caller, destination, amount, payload)
		return err
	})
	if err != nil {
		custody.GetLogger(ctx).Debug("submission rejected", "caller", caller, "err", err)
		return 0, err
	}
	custody.GetLogger(ctx).Info("transaction submitted",
		"id", id,
		"proposer", caller,
		"destination", destination)
	return id, nil
}

// ConfirmTransaction records the confirmation of caller. Recording the
// confirmation and incrementing the count is a single atomic change.
func (c *Controller) ConfirmTransaction(ctx custody.Context, db custody.KVStore, caller custody.Address, id uint64) error {
	err := savepoint(db, func(db custody.KVStore) error {
		return c.confirm(db, caller, id)
	})
	if err != nil {
		custody.GetLogger(ctx).Debug("confirmation rejected", "id", id, "caller", caller, "err", err)
		return err
	}
	custody.GetLogger(ctx).Info("transaction confirmed", "id", id, "owner", caller)
	return nil
}

func (c *Controller) confirm(db custody.KVStore, caller custody.Address, id uint64) error {
	if ok, err := c.owners.IsOwner(db, caller); err != nil {
		return errors.Wrap(err, "cannot check owner")
	} else if !ok {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not an owner", caller)
	}
	tx, err := c.transactions.Get(db, id)
	if err != nil {
		return err
	}
	if tx.Executed {
		return errors.Wrapf(ErrAlreadyExecuted, "transaction %d", id)
	}
	if err := c.confirmations.Record(db, id, caller); err != nil {
		return err
	}
	if err := c.transactions.IncrementConfirmations(db, id); err != nil {
		return err
	}
	return c.events.Emit(db, &Event{
		Kind:          EventTransactionConfirmed,
		TransactionID: id,
		Owner:         copyBytes(caller),
	})
}

// ExecuteTransaction marks the transaction as executed once it collected
// enough confirmations. Anyone may trigger the execution. The transaction
// as it was executed is returned, so that it can be dispatched after the
// change is committed.
func (c *Controller) ExecuteTransaction(ctx custody.Context, db custody.KVStore, id uint64) (*Transaction, error) {
	var executed *Transaction
	err := savepoint(db, func(db custody.KVStore) error {
		var err error
		executed, err = c.execute(db, id)
		return err
	})
	if err != nil {
		custody.GetLogger(ctx).Debug("execution rejected", "id", id, "err", err)
		return nil, err
	}
	custody.GetLogger(ctx).Info("transaction executed",
		"id", id,
		"destination", executed.Destination,
		"amount", executed.AmountValue().Dec())
	return executed, nil
}

func (c *Controller) execute(db custody.KVStore, id uint64) (*Transaction, error) {
	tx, err := c.transactions.Get(db, id)
	if err != nil {
		return nil, err
	}
	if tx.Executed {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "transaction %d", id)
	}
	required, err := c.owners.RequiredConfirmations(db)
	if err != nil {
		return nil, err
	}
	if tx.ConfirmationCount < required {
		return nil, errors.Wrapf(ErrInsufficientConfirmations,
			"transaction %d has %d of %d", id, tx.ConfirmationCount, required)
	}
	if err := c.transactions.MarkExecuted(db, id); err != nil {
		return nil, err
	}
	err = c.events.Emit(db, &Event{
		Kind:          EventTransactionExecuted,
		TransactionID: id,
	})
	if err != nil {
		return nil, err
	}
	tx.Executed = true
	return tx, nil
}

// Transaction returns a copy of the transaction with given ID.
func (c *Controller) Transaction(db custody.ReadOnlyKVStore, id uint64) (*Transaction, error) {
	return c.transactions.Get(db, id)
}

// IsConfirmed returns true if owner confirmed the transaction.
func (c *Controller) IsConfirmed(db custody.ReadOnlyKVStore, id uint64, owner custody.Address) (bool, error) {
	if _, err := c.transactions.Get(db, id); err != nil {
		return false, err
	}
	return c.confirmations.HasConfirmed(db, id, owner)
}

func (c *Controller) ConfirmationCount(db custody.ReadOnlyKVStore, id uint64) (uint32, error) {
	tx, err := c.transactions.Get(db, id)
	if err != nil {
		return 0, err
	}
	return tx.ConfirmationCount, nil
}

// Confirmers returns the owners that confirmed the transaction.
func (c *Controller) Confirmers(db custody.ReadOnlyKVStore, id uint64) ([]custody.Address, error) {
	if _, err := c.transactions.Get(db, id); err != nil {
		return nil, err
	}
	return c.confirmations.Confirmers(db, id)
}

func (c *Controller) RequiredConfirmations(db custody.ReadOnlyKVStore) (uint32, error) {
	return c.owners.RequiredConfirmations(db)
}

func (c *Controller) TransactionCount(db custody.ReadOnlyKVStore) (uint64, error) {
	return c.transactions.Count(db)
}

func (c *Controller) OwnerCount(db custody.ReadOnlyKVStore) (int, error) {
	return c.owners.OwnerCount(db)
}

func (c *Controller) IsOwner(db custody.ReadOnlyKVStore, addr custody.Address) (bool, error) {
	return c.owners.IsOwner(db, addr)
}

func (c *Controller) Owners(db custody.ReadOnlyKVStore) ([]custody.Address, error) {
	return c.owners.Owners(db)
}

// Wallet returns the complete wallet configuration.
func (c *Controller) Wallet(db custody.ReadOnlyKVStore) (*Wallet, error) {
	return c.owners.Wallet(db)
}

// Events lists committed notifications, see EventLog.List.
func (c *Controller) Events(db custody.ReadOnlyKVStore, after uint64, limit int) ([]*Event, error) {
	return c.events.List(db, after, limit)
}

// LastEvent returns the sequence number of the most recent notification.
func (c *Controller) LastEvent(db custody.ReadOnlyKVStore) (uint64, error) {
	return c.events.Last(db)
}

// RecordDispatch stores the outcome of dispatching an executed transaction.
func (c *Controller) RecordDispatch(ctx custody.Context, db custody.KVStore, id uint64, dispatchErr error) error {
	tx, err := c.transactions.Get(db, id)
	if err != nil {
		return err
	}
	if !tx.Executed {
		return errors.Wrapf(errors.ErrState, "transaction %d is not executed", id)
	}
	d := Dispatch{TransactionID: id, Succeeded: dispatchErr == nil}
	if dispatchErr != nil {
		d.Error = dispatchErr.Error()
		custody.GetLogger(ctx).Error("dispatch failed", "id", id, "err", dispatchErr)
	}
	return c.dispatches.Save(db, &d)
}

// Dispatch returns the dispatch outcome of the transaction, or nil if it was
// not dispatched yet.
func (c *Controller) Dispatch(db custody.ReadOnlyKVStore, id uint64) (*Dispatch, error) {
	return c.dispatches.Get(db, id)
}

// savepoint runs fn on a cache of db. The cache is written only if fn
// succeeds, otherwise all changes are dropped. A store that cannot be cache
// wrapped is refused, because the operation would not be atomic.
func savepoint(db custody.KVStore, fn func(custody.KVStore) error) error {
	cstore, ok := db.(custody.CacheableKVStore)
	if !ok {
		return errors.ErrHuman.New("store does not support savepoints")
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}

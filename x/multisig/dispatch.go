package multisig

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// Dispatcher performs the actual transfer of an executed transaction to its
// destination.
//
// Dispatch is called only after the executed flag was committed. A failed
// dispatch never reopens the transaction, it is recorded instead.
type Dispatcher interface {
	Dispatch(ctx custody.Context, tx *Transaction) error
}

// LogDispatcher does not transfer anything, it only logs the transfer that
// was authorized.
type LogDispatcher struct{}

var _ Dispatcher = LogDispatcher{}

func (LogDispatcher) Dispatch(ctx custody.Context, tx *Transaction) error {
	custody.GetLogger(ctx).Info("dispatch",
		"id", tx.ID,
		"destination", tx.Destination,
		"amount", tx.AmountValue().Dec(),
		"payload_size", len(tx.Payload))
	return nil
}

// DispatchFunc adapts a function to the Dispatcher interface.
type DispatchFunc func(custody.Context, *Transaction) error

func (fn DispatchFunc) Dispatch(ctx custody.Context, tx *Transaction) error {
	return fn(ctx, tx)
}

// DispatchLog keeps the outcome of each dispatch.
type DispatchLog struct {
	bucket orm.Bucket
}

func NewDispatchLog() *DispatchLog {
	return &DispatchLog{
		bucket: orm.NewBucket("dispatches", &Dispatch{}),
	}
}

// Save stores the dispatch outcome. A transaction is dispatched at most
// once, so an existing record is never overwritten.
func (l *DispatchLog) Save(db custody.KVStore, d *Dispatch) error {
	key := orm.EncodeSequence(d.TransactionID)
	if ok, err := l.bucket.Has(db, key); err != nil {
		return err
	} else if ok {
		return errors.Wrapf(errors.ErrDuplicate, "transaction %d already dispatched", d.TransactionID)
	}
	return l.bucket.Put(db, key, d)
}

// Get returns the dispatch record, nil if none exists.
func (l *DispatchLog) Get(db custody.ReadOnlyKVStore, id uint64) (*Dispatch, error) {
	obj, err := l.bucket.Get(db, orm.EncodeSequence(id))
	if err != nil || obj == nil {
		return nil, err
	}
	d, ok := obj.Value().(*Dispatch)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return d, nil
}

package multisig

import (
	"github.com/holiman/uint256"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// TransactionStore is an append only sequence of proposed transactions.
// Transaction IDs are assigned from zero, in the order of submission, and
// are never reused.
type TransactionStore struct {
	bucket orm.Bucket
	seq    orm.Sequence
	owners *OwnerRegistry
	events *EventLog
}

func NewTransactionStore(owners *OwnerRegistry, events *EventLog) *TransactionStore {
	return &TransactionStore{
		bucket: orm.NewBucket("txs", &Transaction{}),
		seq:    orm.NewSequence("txs", "id"),
		owners: owners,
		events: events,
	}
}

// Submit stores a new transaction proposed by one of the owners and
// returns its ID.
func (s *TransactionStore) Submit(
	db custody.KVStore,
	proposer, destination custody.Address,
	amount *uint256.Int,
	payload []byte,
) (uint64, error) {
	if ok, err := s.owners.IsOwner(db, proposer); err != nil {
		return 0, errors.Wrap(err, "cannot check owner")
	} else if !ok {
		return 0, errors.Wrapf(errors.ErrUnauthorized, "%s is not an owner", proposer)
	}
	w, err := s.owners.Wallet(db)
	if err != nil {
		return 0, err
	}
	if err := destination.Validate(); err != nil {
		return 0, errors.Field("Destination", err, "")
	}
	if len(payload) > int(w.MaxPayloadSize) {
		return 0, errors.Field("Payload", errors.ErrInput,
			"%d bytes, limit is %d", len(payload), w.MaxPayloadSize)
	}

	next, err := s.seq.NextInt(db)
	if err != nil {
		return 0, errors.Wrap(err, "cannot acquire ID")
	}
	id := next - 1
	tx := Transaction{
		ID:          id,
		Proposer:    copyBytes(proposer),
		Destination: copyBytes(destination),
		Amount:      EncodeAmount(amount),
		Payload:     copyBytes(payload),
	}
	if err := s.put(db, &tx); err != nil {
		return 0, err
	}
	err = s.events.Emit(db, &Event{
		Kind:          EventTransactionSubmitted,
		TransactionID: id,
		Owner:         tx.Proposer,
		Destination:   tx.Destination,
		Amount:        tx.Amount,
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Count returns the number of transactions ever submitted. This is also the
// ID the next submitted transaction gets.
func (s *TransactionStore) Count(db custody.ReadOnlyKVStore) (uint64, error) {
	return s.seq.Latest(db)
}

// Get returns a copy of the transaction. ErrNotFound is returned for an ID
// that was never assigned.
func (s *TransactionStore) Get(db custody.ReadOnlyKVStore, id uint64) (*Transaction, error) {
	count, err := s.Count(db)
	if err != nil {
		return nil, err
	}
	if id >= count {
		return nil, errors.Wrapf(errors.ErrNotFound, "transaction %d", id)
	}
	var tx Transaction
	if err := s.bucket.One(db, orm.EncodeSequence(id), &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// MarkExecuted flips the executed flag. Preconditions are not checked, this
// is the job of the caller.
func (s *TransactionStore) MarkExecuted(db custody.KVStore, id uint64) error {
	tx, err := s.Get(db, id)
	if err != nil {
		return err
	}
	tx.Executed = true
	return s.put(db, tx)
}

// IncrementConfirmations increases the confirmation count by one. The caller
// ensures it happens at most once per owner.
func (s *TransactionStore) IncrementConfirmations(db custody.KVStore, id uint64) error {
	tx, err := s.Get(db, id)
	if err != nil {
		return err
	}
	if tx.ConfirmationCount == ^uint32(0) {
		return errors.Wrapf(errors.ErrOverflow, "transaction %d confirmations", id)
	}
	tx.ConfirmationCount++
	return s.put(db, tx)
}

func (s *TransactionStore) put(db custody.KVStore, tx *Transaction) error {
	if err := s.bucket.Put(db, orm.EncodeSequence(tx.ID), tx); err != nil {
		return errors.Wrapf(err, "cannot save transaction %d", tx.ID)
	}
	return nil
}

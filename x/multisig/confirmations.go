package multisig

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// ConfirmationLedger records which owner confirmed which transaction. A
// record is never removed.
type ConfirmationLedger struct {
	bucket orm.Bucket
	owners *OwnerRegistry
}

func NewConfirmationLedger(owners *OwnerRegistry) *ConfirmationLedger {
	return &ConfirmationLedger{
		bucket: orm.NewBucket("confirms", &Confirmation{}),
		owners: owners,
	}
}

// confirmationKey is the transaction ID followed by the owner address.
func confirmationKey(id uint64, owner custody.Address) []byte {
	return append(orm.EncodeSequence(id), owner...)
}

// HasConfirmed returns true if owner confirmed transaction id.
func (l *ConfirmationLedger) HasConfirmed(db custody.ReadOnlyKVStore, id uint64, owner custody.Address) (bool, error) {
	return l.bucket.Has(db, confirmationKey(id, owner))
}

// Record stores the confirmation. Confirming the same transaction twice is
// an error, so that the caller can tell the first confirmation apart.
func (l *ConfirmationLedger) Record(db custody.KVStore, id uint64, owner custody.Address) error {
	key := confirmationKey(id, owner)
	if ok, err := l.bucket.Has(db, key); err != nil {
		return errors.Wrap(err, "cannot check confirmation")
	} else if ok {
		return errors.Wrapf(ErrAlreadyConfirmed, "transaction %d by %s", id, owner)
	}
	c := Confirmation{TransactionID: id, Owner: copyBytes(owner)}
	if err := l.bucket.Put(db, key, &c); err != nil {
		return errors.Wrap(err, "cannot save confirmation")
	}
	return nil
}

// Confirmers returns the owners that confirmed transaction id, in the owner
// set order.
func (l *ConfirmationLedger) Confirmers(db custody.ReadOnlyKVStore, id uint64) ([]custody.Address, error) {
	owners, err := l.owners.Owners(db)
	if err != nil {
		return nil, err
	}
	var res []custody.Address
	for _, o := range owners {
		ok, err := l.HasConfirmed(db, id, o)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, o)
		}
	}
	return res, nil
}

package multisig

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

var walletKey = []byte("config")

// OwnerRegistry keeps the owner set and the number of confirmations required
// to execute a transaction.
//
// The ordered owner list is stored together with the threshold in a single
// wallet record. Each owner additionally has a membership record, so that
// the membership test is a single lookup.
type OwnerRegistry struct {
	wallets orm.Bucket
	owners  orm.Bucket
}

// NewOwnerRegistry returns a registry that keeps its state in the "wallet"
// and "owners" buckets.
func NewOwnerRegistry() *OwnerRegistry {
	return &OwnerRegistry{
		wallets: orm.NewBucket("wallet", &Wallet{}),
		owners:  orm.NewBucket("owners", &Owner{}),
	}
}

// Initialize registers the owner set. It can succeed only once. All
// validation is done before anything is written.
func (r *OwnerRegistry) Initialize(db custody.KVStore, w *Wallet) error {
	if ok, err := r.wallets.Has(db, walletKey); err != nil {
		return errors.Wrap(err, "cannot check wallet")
	} else if ok {
		return errors.Wrap(ErrAlreadyInitialized, "owner set is immutable")
	}
	if err := w.Validate(); err != nil {
		return err
	}
	if err := r.wallets.Put(db, walletKey, w); err != nil {
		return errors.Wrap(err, "cannot save wallet")
	}
	for i, a := range w.Owners {
		o := Owner{Address: a, Position: uint32(i)}
		if err := r.owners.Put(db, a, &o); err != nil {
			return errors.Wrapf(err, "cannot save owner %d", i)
		}
	}
	return nil
}

// Wallet returns the wallet configuration. ErrNotInitialized is returned
// before the registry was initialized.
func (r *OwnerRegistry) Wallet(db custody.ReadOnlyKVStore) (*Wallet, error) {
	var w Wallet
	if err := r.wallets.One(db, walletKey, &w); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrap(ErrNotInitialized, "no owners registered")
		}
		return nil, err
	}
	return &w, nil
}

// IsOwner returns true if given address belongs to the owner set. It is
// false for any address on an uninitialized registry.
func (r *OwnerRegistry) IsOwner(db custody.ReadOnlyKVStore, addr custody.Address) (bool, error) {
	if len(addr) != custody.AddressLength {
		return false, nil
	}
	return r.owners.Has(db, addr)
}

// Owners returns the owner set in the order it was registered.
func (r *OwnerRegistry) Owners(db custody.ReadOnlyKVStore) ([]custody.Address, error) {
	w, err := r.Wallet(db)
	if err != nil {
		return nil, err
	}
	return w.Owners, nil
}

func (r *OwnerRegistry) OwnerCount(db custody.ReadOnlyKVStore) (int, error) {
	w, err := r.Wallet(db)
	if err != nil {
		return 0, err
	}
	return len(w.Owners), nil
}

func (r *OwnerRegistry) RequiredConfirmations(db custody.ReadOnlyKVStore) (uint32, error) {
	w, err := r.Wallet(db)
	if err != nil {
		return 0, err
	}
	return w.RequiredConfirmations, nil
}

package multisig

import (
	"github.com/holiman/uint256"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// DefaultMaxPayloadSize is used when a wallet is initialized without an
// explicit payload limit.
const DefaultMaxPayloadSize = 64 * 1024

// maxAmountSize is the size of a 256 bit integer in bytes.
const maxAmountSize = 32

var _ orm.Model = (*Wallet)(nil)

// Validate ensures the wallet configuration is consistent.
func (m *Wallet) Validate() error {
	if len(m.Owners) == 0 {
		return errors.Wrap(ErrEmptyOwnerSet, "no owners")
	}
	if m.RequiredConfirmations == 0 || int(m.RequiredConfirmations) > len(m.Owners) {
		return errors.Wrapf(ErrInvalidThreshold,
			"required %d of %d owners", m.RequiredConfirmations, len(m.Owners))
	}
	seen := make(map[string]struct{}, len(m.Owners))
	for i, a := range m.Owners {
		if err := validateOwnerAddress(a); err != nil {
			return errors.Wrapf(err, "owner %d", i)
		}
		if _, ok := seen[string(a)]; ok {
			return errors.Wrapf(ErrDuplicateOwner, "owner %d: %s", i, a)
		}
		seen[string(a)] = struct{}{}
	}
	if m.MaxPayloadSize == 0 {
		return errors.Field("MaxPayloadSize", errors.ErrInput, "must be greater than zero")
	}
	return nil
}

func validateOwnerAddress(a custody.Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.IsZero() {
		return errors.Wrap(ErrZeroAddress, "owner")
	}
	return nil
}

var _ orm.Model = (*Owner)(nil)

func (m *Owner) Validate() error {
	return validateOwnerAddress(m.Address)
}

var _ orm.Model = (*Transaction)(nil)

// Validate ensures the transaction is well formed. It does not check
// authorization nor the payload limit, those depend on the wallet.
func (m *Transaction) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Proposer", m.Proposer.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if len(m.Amount) > maxAmountSize {
		errs = errors.AppendField(errs, "Amount",
			errors.Wrapf(errors.ErrOverflow, "%d bytes", len(m.Amount)))
	}
	return errs
}

// AmountValue returns the transferred amount. A transaction without an
// amount transfers zero.
func (m *Transaction) AmountValue() *uint256.Int {
	return new(uint256.Int).SetBytes(m.Amount)
}

// EncodeAmount returns the storage form of an amount. Nil is treated as
// zero, which is stored as no bytes.
func EncodeAmount(amount *uint256.Int) []byte {
	if amount == nil || amount.IsZero() {
		return nil
	}
	return amount.Bytes()
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

var _ orm.Model = (*Confirmation)(nil)

func (m *Confirmation) Validate() error {
	return errors.AppendField(nil, "Owner", validateOwnerAddress(m.Owner))
}

var _ orm.Model = (*Event)(nil)

// Validate ensures the event kind is known and carries the fields its kind
// requires.
func (m *Event) Validate() error {
	if m.Seq == 0 {
		return errors.Field("Seq", errors.ErrModel, "sequence starts with 1")
	}
	switch m.Kind {
	case EventTransactionSubmitted:
		return errors.Append(
			errors.AppendField(nil, "Owner", m.Owner.Validate()),
			errors.AppendField(nil, "Destination", m.Destination.Validate()),
		)
	case EventTransactionConfirmed:
		return errors.AppendField(nil, "Owner", m.Owner.Validate())
	case EventTransactionExecuted:
		return nil
	default:
		return errors.Field("Kind", errors.ErrType, "unknown event kind %d", m.Kind)
	}
}

// AmountValue returns the amount of a submission event.
func (m *Event) AmountValue() *uint256.Int {
	return new(uint256.Int).SetBytes(m.Amount)
}

var _ orm.Model = (*Dispatch)(nil)

func (m *Dispatch) Validate() error {
	if !m.Succeeded && m.Error == "" {
		return errors.Field("Error", errors.ErrEmpty, "failed dispatch must carry the reason")
	}
	return nil
}

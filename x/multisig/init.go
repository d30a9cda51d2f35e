package multisig

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// GenesisKey is the genesis file section read by the Initializer.
const GenesisKey = "multisig"

// Genesis is the multisig section of the genesis file.
type Genesis struct {
	Owners                []custody.Address `json:"owners"`
	RequiredConfirmations uint32            `json:"required_confirmations"`
	MaxPayloadSize        uint32            `json:"max_payload_size,omitempty"`
}

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct {
	Controller *Controller
}

var _ custody.Initializer = (*Initializer)(nil)

// FromGenesis will parse the owner set from genesis and save it in the
// database.
func (i *Initializer) FromGenesis(ctx custody.Context, opts custody.Options, db custody.KVStore) error {
	var g Genesis
	if err := opts.ReadOptions(GenesisKey, &g); err != nil {
		return err
	}
	ctrl := i.Controller
	if ctrl == nil {
		ctrl = NewController()
	}
	err := ctrl.InitializeWallet(ctx, db, &Wallet{
		Owners:                g.Owners,
		RequiredConfirmations: g.RequiredConfirmations,
		MaxPayloadSize:        g.MaxPayloadSize,
	})
	return errors.Wrap(err, "cannot initialize wallet from genesis")
}

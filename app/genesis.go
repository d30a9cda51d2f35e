package app

import (
	"encoding/json"
	"os"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/multisig"
)

// GenesisFile is the name of the genesis file in the home directory.
const GenesisFile = "genesis.json"

// LoadGenesis reads the genesis options from the file.
func LoadGenesis(path string) (custody.Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var opts custody.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "genesis file %s: %s", path, err)
	}
	return opts, nil
}

// GenesisTemplate returns the content of a genesis file for given owners.
func GenesisTemplate(owners []custody.Address, required uint32) ([]byte, error) {
	if owners == nil {
		owners = []custody.Address{}
	}
	doc := map[string]multisig.Genesis{
		multisig.GenesisKey: {
			Owners:                owners,
			RequiredConfirmations: required,
			MaxPayloadSize:        multisig.DefaultMaxPayloadSize,
		},
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrType, err.Error())
	}
	return raw, nil
}

package custody

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/custody/crypto/bech32"
	"github.com/iov-one/custody/errors"
)

const (
	// AddressLength is the length of all addresses.
	AddressLength = 20

	// Bech32Prefix is the human readable part used when an address is
	// printed in its bech32 form.
	Bech32Prefix = "iov"
)

// Address identifies a principal: an owner, a proposer or a destination of
// a transfer.
//
// The zero address (all bytes set to zero) is a valid value, but it can never
// be registered as an owner.
type Address []byte

// ZeroAddress returns the null principal.
func ZeroAddress() Address {
	return make(Address, AddressLength)
}

// NewAddress hashes and truncates data into the proper size.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return h[:AddressLength]
}

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// IsZero returns true if this is the null principal.
func (a Address) IsZero() bool {
	return len(a) == AddressLength && bytes.Equal(a, zeroAddress[:])
}

var zeroAddress [AddressLength]byte

// Validate returns an error if the address is not the valid size.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address length %d", len(a))
	}
	return nil
}

// String returns a human readable string.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 returns the bech32 form of this address.
func (a Address) Bech32() (string, error) {
	return bech32.Encode(Bech32Prefix, a)
}

// MarshalJSON provides a hex representation for JSON,
// to override the standard base64 []byte encoding
func (a Address) MarshalJSON() ([]byte, error) {
	s := strings.ToUpper(hex.EncodeToString(a))
	return json.Marshal(s)
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(errors.ErrInput, "cannot decode json")
	}
	// No value zero the address.
	if len(enc) == 0 {
		*a = nil
		return nil
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes an address from its human readable form. Accepted
// formats are plain hex, hex prefixed with "hex:" and bech32 prefixed with
// "bech32:".
func ParseAddress(enc string) (Address, error) {
	format, data := "hex", enc
	if chunks := strings.SplitN(enc, ":", 2); len(chunks) == 2 {
		format, data = chunks[0], chunks[1]
	}

	var addr Address
	switch format {
	case "hex":
		val, err := hex.DecodeString(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, "cannot decode hex")
		}
		addr = val
	case "bech32":
		_, payload, err := bech32.Decode(data)
		if err != nil {
			return nil, err
		}
		addr = payload
	default:
		return nil, errors.Wrapf(errors.ErrType, "unknown format %q", format)
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// MustParseAddress is like ParseAddress but panics on failure. Use it only
// with constant input.
func MustParseAddress(enc string) Address {
	addr, err := ParseAddress(enc)
	if err != nil {
		panic(err)
	}
	return addr
}

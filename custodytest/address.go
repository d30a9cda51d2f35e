// Package custodytest provides helpers for testing code that uses the custody
// packages.
package custodytest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/custody"
)

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) custody.Address {
	t.Helper()
	raw := make([]byte, custody.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	a := custody.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("generated address is not valid: %s", err)
	}
	return a
}

// NamedAddr returns a deterministic address derived from name. The same name
// always produces the same address, which keeps test failures readable.
func NamedAddr(name string) custody.Address {
	return custody.NewAddress([]byte(name))
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) custody.Address {
	t.Helper()

	addr, err := custody.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

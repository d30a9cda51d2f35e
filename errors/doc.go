/*
Package errors implements custom error interfaces for custody.

Error declarations should be generic and cover broad range of cases. Each
returned error instance can wrap a generic error declaration to provide more
details.

Every root error is created with Register, which binds it to a unique code.
That code is what clients (see package server) use to tell error kinds apart,
while the error message carries the details of a single failure.

	var ErrNotOwner = errors.Register(1099, "not an owner")

	return errors.Wrapf(ErrNotOwner, "address %s", addr)

Use Is to test an error kind, it walks through all wrapping layers.
*/
package errors

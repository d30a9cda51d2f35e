/*
Package custody defines the interfaces shared by all parts of the custody
engine: storage, addresses, genesis options and context helpers.

The threshold authorization logic itself lives in x/multisig. Package app
hosts it: it serializes calls and runs every operation on a cache wrap of the
committed store, so that an operation either commits all of its writes or
none of them.

A logger travels in the context.Context passed to every operation.

  WithLogger(Context, log.Logger) Context
  GetLogger(Context) log.Logger
*/
package custody

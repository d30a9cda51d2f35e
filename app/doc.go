/*
Package app hosts the multisig wallet.

App owns the committed store and serializes every call with a mutex. Each
operation runs on a fresh cache of the committed store. The cache is
written when the operation succeeds and discarded when it fails or panics,
so a failed call never leaves partial state behind.

Notifications are stored by the operation itself. After a successful commit
App reads the newly committed events and publishes them to all registered
sinks, in commit order.

Executed transactions are dispatched after the executed flag was committed
and after the lock was released. The outcome is recorded, it never reopens
the transaction.
*/
package app

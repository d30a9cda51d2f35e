/*
Package multisig implements a wallet that a fixed set of owners controls
together.

Any owner can submit a transaction: a transfer of an amount to a destination
together with an opaque payload. The transaction can be executed once the
required number of distinct owners confirmed it, and it executes at most
once. Execution only records the authorization decision. The transfer itself
is handed over to a Dispatcher after the decision was committed.

Each transaction is in one of two states:

	submitted -> executed

Confirmations accumulate in the submitted state. Executed is terminal, no
operation can change an executed transaction.

The owner set and the threshold are configured once, usually from the
genesis file, and never change.

Every successful state change appends an Event to the event log, in the same
store and the same atomic write as the change itself.
*/
package multisig

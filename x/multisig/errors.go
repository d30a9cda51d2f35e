package multisig

import (
	"github.com/iov-one/custody/errors"
)

// multisig takes 1030-1039
var (
	// ErrEmptyOwnerSet is returned when a wallet is initialized without
	// any owner.
	ErrEmptyOwnerSet = errors.Register(1030, "empty owner set")

	// ErrInvalidThreshold is returned when the required confirmations
	// value is zero or greater than the number of owners.
	ErrInvalidThreshold = errors.Register(1031, "invalid threshold")

	// ErrZeroAddress is returned when the zero address is used as an owner.
	ErrZeroAddress = errors.Register(1032, "zero address")

	ErrDuplicateOwner = errors.Register(1033, "duplicate owner")

	// ErrAlreadyExecuted is returned for any state change of an executed
	// transaction.
	ErrAlreadyExecuted = errors.Register(1034, "transaction already executed")

	ErrAlreadyConfirmed = errors.Register(1035, "transaction already confirmed")

	// ErrInsufficientConfirmations is returned when execution is requested
	// before the quorum was reached.
	ErrInsufficientConfirmations = errors.Register(1036, "insufficient confirmations")

	ErrAlreadyInitialized = errors.Register(1037, "wallet already initialized")
	ErrNotInitialized     = errors.Register(1038, "wallet not initialized")
)

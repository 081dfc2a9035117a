package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound = errors.New("not_found")
	ErrInvalid  = errors.New("invalid")
	// ErrUnknownCategory flags a mutation or query against a category id the
	// chart does not contain.
	ErrUnknownCategory = errors.New("unknown_category")
	// ErrCorruptSnapshot indicates persisted ledger data failed structural
	// validation; the engine regenerates the ledger instead of propagating it.
	ErrCorruptSnapshot = errors.New("corrupt_snapshot")
)

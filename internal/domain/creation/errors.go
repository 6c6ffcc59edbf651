package creation

import "errors"

// Domain errors for the creation ledger.
var (
	ErrCreationNotFound = errors.New("creation not found")
	ErrPersistence      = errors.New("creation could not be saved")
	ErrInvalidInput     = errors.New("invalid creation input")
)

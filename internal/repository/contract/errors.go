package contract

import "errors"

// ErrDuplicateEmail is returned by UserRepository.Create when the unique
// email index rejects the row.
var ErrDuplicateEmail = errors.New("email already registered")

package finovate

import "errors"

// ErrStorage indicates that the persistence layer could not be read or written.
var ErrStorage = errors.New("storage error")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a record that already exists.
var ErrDuplicate = errors.New("record already exists")

// ErrNotFound indicates that a requested record could not be found.
var ErrNotFound = errors.New("record not found")

// ErrDegraded indicates that an optional part of an operation failed and was skipped.
var ErrDegraded = errors.New("degraded feature")

// ErrIdentityMismatch indicates that a password or email did not match the registered user.
var ErrIdentityMismatch = errors.New("identity mismatch")

package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrPermissionDenied indicates the actor is not allowed to perform the operation
// on this resource (ownership or role violation).
var ErrPermissionDenied = errors.New("permission denied")

// ErrInvalidTransition indicates a status change the lifecycle table forbids.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrPreconditionFailed indicates the certificate is not in the state a specific
// operation requires, or a required input (e.g. a rejection reason) is missing.
var ErrPreconditionFailed = errors.New("precondition failed")

// ErrConflict indicates a conditional status update matched zero rows because a
// concurrent request changed the certificate first. Callers may retry with a fresh read.
var ErrConflict = errors.New("concurrent update conflict")

// ErrCacheUnavailable indicates a cache backend failure. Never fatal: callers log
// it and fall through to the store.
var ErrCacheUnavailable = errors.New("cache unavailable")

package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrBudgetLocked indicates a mutation was attempted on a budget after approval.
var ErrBudgetLocked = errors.New("budget is locked")

// ErrInvalidTransition indicates a status change not permitted from the current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrConflict indicates the resource was modified concurrently (stale version).
var ErrConflict = errors.New("resource version conflict")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the authenticated actor may not perform the action.
var ErrForbidden = errors.New("forbidden")

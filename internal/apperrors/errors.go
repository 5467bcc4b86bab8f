package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrent modification was detected (stale version
// or lost row lock). Callers retry once with a fresh read before surfacing it.
var ErrConflict = errors.New("conflicting concurrent modification")

// ErrOverpayment indicates a payment amount exceeds the document's remaining
// balance. The amount is never clamped; callers decide on an adjustment flow.
var ErrOverpayment = errors.New("payment exceeds remaining balance")

// ErrDocumentCancelled indicates a mutation was attempted on a cancelled document.
var ErrDocumentCancelled = errors.New("document is cancelled")

// ErrRoundingInvariant indicates the per-component tax sum disagrees with the
// independently computed tax total by more than one minor unit. This is a
// calculation bug and must fail loudly rather than persist wrong totals.
var ErrRoundingInvariant = errors.New("tax rounding invariant violated")

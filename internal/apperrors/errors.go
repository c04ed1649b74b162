package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrLocked indicates an edit was attempted on a document whose status no longer permits it.
var ErrLocked = errors.New("document is locked for editing")

// ErrPaymentExceedsBalance indicates a payment larger than the document's outstanding balance.
// The caller must split or correct the entry; amounts are never silently clamped.
var ErrPaymentExceedsBalance = errors.New("payment exceeds outstanding balance")

// ErrDepositConflict indicates a deposit invoice is already applied to another final invoice.
var ErrDepositConflict = errors.New("deposit already applied to another invoice")

// ErrNumberingConflict indicates transient contention on the document number counter.
// Safe to retry.
var ErrNumberingConflict = errors.New("document numbering conflict")

// ErrInvariantViolation indicates stored totals contradict the document's items or
// derivation rules. This is an internal bug, never caller error; it is raised loudly
// with full document state rather than auto-corrected.
var ErrInvariantViolation = errors.New("document invariant violation")

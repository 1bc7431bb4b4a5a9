// Package errors holds the sentinel errors shared by the ledger store, the
// payment engine and the transport layer. Callers wrap them with %w and test
// with errors.Is.
package errors

import (
	"fmt"
)

var (
	ErrNotFound      = fmt.Errorf("not found")
	ErrDuplicateName = fmt.Errorf("duplicate name")
	ErrInvalidInput  = fmt.Errorf("invalid input")
	ErrSkillMismatch = fmt.Errorf("skill mismatch")
	ErrStateConflict = fmt.Errorf("state conflict")

	// ErrNotInProgress is returned when a project is acted on after it left
	// the in_progress state.
	ErrNotInProgress = fmt.Errorf("%w: project is not in progress", ErrStateConflict)
	// ErrNegativeBalance gates hiring while the company is in debt.
	ErrNegativeBalance = fmt.Errorf("%w: company balance is negative", ErrStateConflict)

	// ErrConflict reports a lost compare-and-swap on a checkpoint. It is
	// retryable and never meant to reach a client.
	ErrConflict = fmt.Errorf("concurrent modification")
)

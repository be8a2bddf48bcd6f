package tracker

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is bad user input: empty name, non-positive weight, missing date.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound is an operation on an unknown id or index.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientBudget is a submission heavier than what is left in the package.
	ErrInsufficientBudget = errors.New("insufficient budget")
	// ErrImportFormat is a backup file that lacks items or settings or can't be parsed.
	ErrImportFormat = errors.New("invalid backup file format")
)

// InsufficientBudgetError carries the numbers for the user message.
type InsufficientBudgetError struct {
	Requested float64
	Available float64
}

func (e *InsufficientBudgetError) Error() string {
	return fmt.Sprintf("not enough weight remaining: only %.1f kg left", e.Available)
}

func (e *InsufficientBudgetError) Is(target error) bool {
	return target == ErrInsufficientBudget
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

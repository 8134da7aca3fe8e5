package raceid

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three validation rules. A *ValidationError
// unwraps to the sentinel of its first failing rule.
var (
	ErrPrefixMismatch  = errors.New("prefix mismatch")
	ErrPatternMismatch = errors.New("pattern mismatch")
	ErrOutOfRange      = errors.New("out of range")
)

// Kind names a validation rule.
type Kind int

const (
	PrefixMismatch Kind = iota
	PatternMismatch
	OutOfRange
)

func (k Kind) String() string {
	switch k {
	case PrefixMismatch:
		return "prefix mismatch"
	case PatternMismatch:
		return "pattern mismatch"
	case OutOfRange:
		return "out of range"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case PrefixMismatch:
		return ErrPrefixMismatch
	case PatternMismatch:
		return ErrPatternMismatch
	default:
		return ErrOutOfRange
	}
}

// Issue is a single failed rule.
type Issue struct {
	Kind    Kind
	Message string
}

// ValidationError reports why an identifier was rejected. Every rule is
// evaluated; Issues holds the failures in rule order and the first one
// determines Error() and Unwrap().
type ValidationError struct {
	IDKind string // "place", "race" or "race player"
	ID     string
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return fmt.Sprintf("invalid %s id %q", e.IDKind, e.ID)
	}
	return fmt.Sprintf("invalid %s id %q: %s: %s", e.IDKind, e.ID, e.Issues[0].Kind, e.Issues[0].Message)
}

func (e *ValidationError) Unwrap() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e.Issues[0].Kind.sentinel()
}

// First returns the rule that rejected the identifier.
func (e *ValidationError) First() Issue {
	if len(e.Issues) == 0 {
		return Issue{}
	}
	return e.Issues[0]
}

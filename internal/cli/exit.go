package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/racedata/internal/core"
)

// Exit codes returned by the racedata binary.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &codedError{code: code, err: err}
}

func usageErrorf(format string, args ...any) error {
	return withCode(ExitUsage, fmt.Errorf(format, args...))
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	return ExitFailure
}

// PrintError writes the coded user message for err, followed by the
// technical error when it maps to no specific code.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var ce *codedError
	if errors.As(err, &ce) && ce.code == ExitUsage {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Error: %s\n", core.FormatUserError(err))
	if !core.IsUserFacing(err) {
		fmt.Fprintf(w, "  %v\n", err)
	}
}

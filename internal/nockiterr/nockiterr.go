// Package nockiterr defines the error taxonomy shared by every nockit
// component, and the exit-code mapping CommandSurface applies to it.
package nockiterr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure independent of where it occurred, per
// spec §7. CommandSurface maps a Kind to a process exit code.
type Kind int

const (
	// KindOther covers anything not otherwise classified.
	KindOther Kind = iota
	KindConfiguration
	KindCryptographic
	KindIO
	KindProcess
	KindNetwork
	KindParsing
	KindUser
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindCryptographic:
		return "cryptographic"
	case KindIO:
		return "io"
	case KindProcess:
		return "process"
	case KindNetwork:
		return "network"
	case KindParsing:
		return "parsing"
	case KindUser:
		return "user"
	default:
		return "other"
	}
}

// ExitCode returns the process exit code spec §6 assigns to a Kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindUser:
		return 2
	case KindConfiguration:
		return 3
	case KindProcess:
		return 4
	case KindCryptographic:
		return 5
	case KindIO:
		return 6
	default:
		return 1
	}
}

// Error wraps an underlying cause with a Kind and a short summary, so
// CommandSurface can print `ERROR: <kind>: <summary>` and pick an exit
// code without inspecting error strings.
type Error struct {
	Kind    Kind
	Summary string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Summary, e.Cause)
	}
	return e.Summary
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error of the given Kind.
func New(kind Kind, summary string) *Error {
	return &Error{Kind: kind, Summary: summary}
}

// Wrap attaches a Kind and summary to an existing cause. Returns nil if
// cause is nil, so call sites can write `return nockiterr.Wrap(...)`
// directly on a fallible call's error return.
func Wrap(kind Kind, summary string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Summary: summary, Cause: cause}
}

// KindOf extracts the Kind from err if it (or something it wraps) is
// an *Error; otherwise returns KindOther.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

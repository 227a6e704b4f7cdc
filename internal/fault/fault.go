// Package fault defines the error kinds every fae operation reports.
//
// Each failure is a *Error carrying a Kind, the offending value (a language
// tag, a shell tag, a manifest key, a command line) and an optional cause.
// Callers match on the kind with errors.Is:
//
//	if errors.Is(err, fault.UnsupportedLanguage) { ... }
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Kind implements error so it can be used as an
// errors.Is target.
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	MissingManifest      Kind = "missing manifest"
	MalformedManifest    Kind = "malformed manifest"
	MissingRequiredField Kind = "missing required field"
	UnsupportedLanguage  Kind = "unsupported language"
	UnsupportedShell     Kind = "unsupported shell"
	MalformedLock        Kind = "malformed lock file"
	SpawnFailure         Kind = "spawn failure"
	InvalidCommand       Kind = "invalid command"
	InstallFailure       Kind = "install failure"
)

// Error is a classified failure.
type Error struct {
	Kind    Kind
	Subject string // offending value, quoted in the message
	Msg     string // optional human-readable detail replacing the default
	Err     error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = defaultMessage(e.Kind, e.Subject)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is this error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// New returns an *Error of the given kind about subject.
func New(kind Kind, subject string) *Error {
	return &Error{Kind: kind, Subject: subject}
}

// Wrap returns an *Error of the given kind about subject caused by err.
func Wrap(kind Kind, subject string, err error) *Error {
	return &Error{Kind: kind, Subject: subject, Err: err}
}

// Newf returns an *Error with a formatted message.
func Newf(kind Kind, subject, format string, args ...any) *Error {
	return &Error{Kind: kind, Subject: subject, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// SubjectOf returns the Subject of the first *Error in err's chain, or "".
func SubjectOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Subject
	}
	return ""
}

func defaultMessage(kind Kind, subject string) string {
	switch kind {
	case MissingManifest:
		return fmt.Sprintf("there is no %s file in this directory", subject)
	case MalformedManifest:
		return fmt.Sprintf("could not read %s, it may be malformed", subject)
	case MissingRequiredField:
		return fmt.Sprintf("the '%s' key must be explicitly set", subject)
	case UnsupportedLanguage:
		return fmt.Sprintf("%s is not a supported language", subject)
	case UnsupportedShell:
		return fmt.Sprintf("%s is not a supported shell type", subject)
	case MalformedLock:
		return fmt.Sprintf("could not read lock file %s, it may be malformed", subject)
	case SpawnFailure:
		return fmt.Sprintf("unable to spawn %s", subject)
	case InvalidCommand:
		return fmt.Sprintf("%s is not a valid command", subject)
	case InstallFailure:
		return fmt.Sprintf("installing %s failed", subject)
	}
	return fmt.Sprintf("%s: %s", kind, subject)
}

// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure in convex-seed is terminal, so the taxonomy is flat: a run either
// could not be configured or the remote call failed. The kind is kept so the
// runner can log it while only the human-readable message reaches the operator.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// ConfigInvalid indicates the deployment endpoint could not be resolved or is malformed.
	ConfigInvalid Kind = "config_invalid"
	// RemoteCallFailed indicates the seed mutation failed for any reason
	// (transport, authentication, server-side rejection, timeout).
	RemoteCallFailed Kind = "remote_call_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

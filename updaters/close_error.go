package updaters

import (
	"strconv"
	"strings"

	"github.com/hupe1980/graphidx/schema"
)

// CloseFailure is one index's failure to close its updater.
type CloseFailure struct {
	// Descriptor identifies the index whose updater failed to close.
	Descriptor schema.Descriptor

	// Err is the underlying close failure, typically an I/O error or an
	// *index.EntryConflictError from deferred validation.
	Err error
}

// CloseError is the composite result of a Close that hit one or more
// per-updater failures. It carries every failure from the invocation, never
// just the first; the order of Failures is unspecified.
//
// CloseError implements multi-error unwrapping, so errors.Is and errors.As
// reach the per-index causes.
type CloseError struct {
	Failures []CloseFailure
}

func (e *CloseError) Error() string {
	var sb strings.Builder
	sb.WriteString("closing index updaters failed for ")
	if len(e.Failures) == 1 {
		sb.WriteString("1 index")
	} else {
		sb.WriteString(strconv.Itoa(len(e.Failures)))
		sb.WriteString(" indexes")
	}
	sb.WriteString(": ")
	for i, f := range e.Failures {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(f.Descriptor.String())
		sb.WriteString(": ")
		sb.WriteString(f.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying per-index errors.
func (e *CloseError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// For returns the failure recorded for the given descriptor, if any.
func (e *CloseError) For(d schema.Descriptor) (CloseFailure, bool) {
	for _, f := range e.Failures {
		if f.Descriptor == d {
			return f, true
		}
	}
	return CloseFailure{}, false
}

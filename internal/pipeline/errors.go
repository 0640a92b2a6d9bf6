// Package pipeline implements the token analyser, sentence analyser, and
// document processor of §4.3–§4.5: the middle of the ingest pipeline
// between the dataset walker and the store.
package pipeline

import (
	"errors"
	"fmt"
)

// The error taxonomy of §7. Per-sentence and per-document errors never
// propagate above the orchestrator; startup and schema errors are fatal.
var (
	// ErrSkipCondition marks malformed input or missing required JSON
	// fields. Counted, logged at info, not surfaced.
	ErrSkipCondition = errors.New("skip condition")

	// ErrMissingReference marks an unknown POS tag, entity-type label,
	// or language. Aborts the current sentence; logged at warn.
	ErrMissingReference = errors.New("missing reference")

	// ErrTransientStore marks a connection or I/O error against the
	// store. Aborts the current document; logged at error; the
	// orchestrator continues to the next document.
	ErrTransientStore = errors.New("transient store error")

	// ErrFatalConfig marks a missing or malformed config file. Aborts
	// the process at startup.
	ErrFatalConfig = errors.New("fatal config error")
)

// SkipCondition wraps context under ErrSkipCondition.
func SkipCondition(context string) error {
	return fmt.Errorf("%s: %w", context, ErrSkipCondition)
}

// MissingReference wraps context under ErrMissingReference.
func MissingReference(context string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", context, ErrMissingReference)
	}
	return fmt.Errorf("%s: %w: %w", context, ErrMissingReference, cause)
}

// TransientStore wraps context under ErrTransientStore.
func TransientStore(context string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", context, ErrTransientStore)
	}
	return fmt.Errorf("%s: %w: %w", context, ErrTransientStore, cause)
}

// FatalConfigf wraps a formatted context plus cause under ErrFatalConfig.
// Exported for use by internal/refdata, which sits outside this package
// but shares the same error kind.
func FatalConfigf(format string, args ...interface{}) error {
	cause := fmt.Errorf(format, args...)
	return fmt.Errorf("%w: %w", ErrFatalConfig, cause)
}

package pluginject

import "fmt"

// ResolutionError is the single error kind raised by Resolve and its
// variants. Failures of nested dependency resolutions are chained through
// Cause, so the full dependency path stays inspectable with errors.As and
// errors.Is.
//
// A ResolutionError never corrupts the container: the failing Key's cache
// slot is left unpopulated and a later request may retry, and unrelated
// resolutions proceed normally.
type ResolutionError struct {
	// Key is the capability whose resolution failed.
	Key Key
	// Reason describes the failure.
	Reason string
	// Cause is the wrapped inner failure, if any.
	Cause error
}

func (e *ResolutionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("pluginject: %s", e.Reason)
	}
	return fmt.Sprintf("pluginject: %s: %v", e.Reason, e.Cause)
}

func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

func resolutionErrorf(key Key, cause error, format string, args ...any) *ResolutionError {
	return &ResolutionError{
		Key:    key,
		Reason: fmt.Sprintf(format, args...),
		Cause:  cause,
	}
}

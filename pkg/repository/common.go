package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
)

// errStopRetry is matched by repeater to stop retrying
var errStopRetry = errors.New("stop retry")

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

func (e *criticalError) Unwrap() []error {
	return []error{e.err, errStopRetry}
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}

// withRetry runs a write, retrying only lock errors with backoff
func withRetry(ctx context.Context, fn func() error) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if isLockError(err) {
			return err // retry
		}
		return &criticalError{err: err}
	}, errStopRetry)
}

// assignments collects id updates to apply to domain objects once a transaction committed,
// so a rolled back or retried write never leaves ids pointing to missing rows
type assignments []func()

func (a *assignments) set(dst *int64, id int64) {
	*a = append(*a, func() { *dst = id })
}

func (a *assignments) apply() {
	for _, fn := range *a {
		fn()
	}
	*a = (*a)[:0]
}

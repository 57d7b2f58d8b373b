package domain

import (
	"errors"
	"fmt"
)

// ErrReportNotFound is returned when an intraday refresh targets a date with
// no existing report. The refresh path must fail loudly rather than fabricate
// a report with no narrative.
var ErrReportNotFound = errors.New("surf report not found")

// UpstreamError wraps a network, timeout, or non-2xx failure from an external
// data source. Callers with retry loops retry it; everyone else surfaces it.
type UpstreamError struct {
	Source string // "ndbc", "coops", "nws"
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s fetch: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ParseError marks a malformed or insufficient source payload. Not retried:
// the same bytes parse the same way every time.
type ParseError struct {
	Source string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s payload: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s payload: %s", e.Source, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StoreError wraps a datastore read or write failure. It aborts the stage
// that hit it and nothing else.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// DependencyError records a deliberate stage skip: a required upstream stage
// did not succeed, so the dependent stage never ran.
type DependencyError struct {
	Stage     string
	DependsOn string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("stage %s skipped: dependency %s did not succeed", e.Stage, e.DependsOn)
}

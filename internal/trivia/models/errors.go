package models

import (
	"errors"
	"fmt"

	"trivia/pkg/platform/sentinel"
)

// FailureKind defines the normalized failure taxonomy of an aggregation run.
type FailureKind string

const (
	// KindSourceUnavailable indicates a connection or query failure.
	KindSourceUnavailable FailureKind = "source_unavailable"

	// KindNotFound indicates the store holds no record.
	KindNotFound FailureKind = "not_found"

	// KindMalformedRecord indicates a record that cannot be normalized.
	KindMalformedRecord FailureKind = "malformed_record"

	// KindClassifierUnavailable indicates the classifier could not label a
	// question. It degrades the category and never skips a source.
	KindClassifierUnavailable FailureKind = "classifier_unavailable"
)

// ErrClassifierUnavailable is returned by classifiers that cannot run.
var ErrClassifierUnavailable = errors.New("classifier unavailable")

// Failure wraps a per-source failure with its normalized kind.
type Failure struct {
	Kind       FailureKind
	Source     SourceName
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *Failure) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("source %s [%s]: %s: %v", e.Source, e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("source %s [%s]: %s", e.Source, e.Kind, e.Message)
}

// Unwrap supports error unwrapping
func (e *Failure) Unwrap() error {
	return e.Underlying
}

// NewFailure creates a new normalized failure.
func NewFailure(kind FailureKind, source SourceName, message string, underlying error) *Failure {
	return &Failure{
		Kind:       kind,
		Source:     source,
		Message:    message,
		Underlying: underlying,
	}
}

// KindOf extracts the failure kind from an error. Errors that are not a
// *Failure are classified through the infrastructure sentinels; anything
// else counts as the source being unavailable.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return KindNotFound
	case errors.Is(err, sentinel.ErrMalformed):
		return KindMalformedRecord
	case errors.Is(err, ErrClassifierUnavailable):
		return KindClassifierUnavailable
	default:
		return KindSourceUnavailable
	}
}

package framework

import (
	"fmt"
	"strings"
)

// SourceError tags an error with the component it came from, e.g. a
// registrar, a link or a named runner.
type SourceError struct {
	Source string
	Err    error
}

// Error implements error.
func (e *SourceError) Error() string {
	return e.Source + ": " + e.Err.Error()
}

// Unwrap returns the tagged error.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// AggregatedError collects the failures of a fan-out. Errors added with
// AddFrom are wrapped in SourceError.
type AggregatedError struct {
	Errors []error
}

// Error implements error.
func (e *AggregatedError) Error() string {
	switch len(e.Errors) {
	case 0:
		return ""
	case 1:
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:", len(e.Errors))
	for _, err := range e.Errors {
		sb.WriteString("\n  ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *AggregatedError) Unwrap() []error {
	return e.Errors
}

// Add adds errors to be aggregated. nil will be skipped.
func (e *AggregatedError) Add(errs ...error) *AggregatedError {
	for _, err := range errs {
		if err != nil {
			e.Errors = append(e.Errors, err)
		}
	}
	return e
}

// AddFrom adds errors produced by source. nil will be skipped.
func (e *AggregatedError) AddFrom(source string, errs ...error) *AggregatedError {
	for _, err := range errs {
		if err != nil {
			e.Errors = append(e.Errors, &SourceError{Source: source, Err: err})
		}
	}
	return e
}

// Sources lists the sources of the tagged errors in the order added.
func (e *AggregatedError) Sources() []string {
	var sources []string
	for _, err := range e.Errors {
		if se, ok := err.(*SourceError); ok {
			sources = append(sources, se.Source)
		}
	}
	return sources
}

// Aggregate returns aggregated error if any error happened.
func (e *AggregatedError) Aggregate() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

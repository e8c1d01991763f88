package records

import "fmt"

// SourceUnavailableError indicates the named data source could not be located
// or read. Fatal to the current build attempt, retryable on the next call.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e SourceUnavailableError) Error() string {
	return fmt.Sprintf("data source %s unavailable: %v", e.Source, e.Err)
}

func (e SourceUnavailableError) Unwrap() error { return e.Err }

// MalformedDataError indicates the named data source's content is not a
// well-formed JSON array of record objects.
type MalformedDataError struct {
	Source string
	Err    error
}

func (e MalformedDataError) Error() string {
	return fmt.Sprintf("data source %s malformed: %v", e.Source, e.Err)
}

func (e MalformedDataError) Unwrap() error { return e.Err }

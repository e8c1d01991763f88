package directory

import (
	"errors"
	"fmt"

	"persondir/internal/records"
)

// ErrInvalidArgument is wrapped by lookup operations when caller input is nil
// or carries an absent identity. Recovered by the caller, never retried
// internally.
var ErrInvalidArgument = errors.New("invalid argument")

type (
	// SourceUnavailableError indicates a data source could not be located or
	// read during an index build.
	SourceUnavailableError = records.SourceUnavailableError
	// MalformedDataError indicates a data source's content is not a
	// well-formed JSON array of record objects.
	MalformedDataError = records.MalformedDataError
	// Profile is the external-records shape handed to the Mapper.
	Profile = records.Profile
)

// JoinKey computes the name|email composite both datasets are correlated on.
func JoinKey(name, email string) string {
	return records.JoinKey(name, email)
}

// InvalidIdentityError indicates a matched account record whose personId
// field does not parse as a UUID. The groupable key itself is corrupt, so
// the whole build fails rather than dropping the record.
type InvalidIdentityError struct {
	JoinKey string
	Value   string
	Err     error
}

func (e InvalidIdentityError) Error() string {
	return fmt.Sprintf("account matched on %q carries invalid person identity %q: %v", e.JoinKey, e.Value, e.Err)
}

func (e InvalidIdentityError) Unwrap() error { return e.Err }

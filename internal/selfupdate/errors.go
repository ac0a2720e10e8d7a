package selfupdate

import (
	"errors"
	"fmt"
)

// ErrUnreachable matches any failure to obtain release information from the remote feed.
var ErrUnreachable = errors.New("release feed unreachable")

// UnreachableError describes a failed request to the release feed.
type UnreachableError struct {
	URL string
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("could not reach %s: %v", e.URL, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUnreachable) hold for every UnreachableError.
func (e *UnreachableError) Is(target error) bool {
	return target == ErrUnreachable
}

// ExtractionError is returned when a downloaded archive cannot be unpacked
// or does not have the expected layout.
type ExtractionError struct {
	Archive string
	Reason  string
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to extract %s: %s: %v", e.Archive, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to extract %s: %s", e.Archive, e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Package upstream holds the pieces shared by the third-party API clients:
// the timeout defaults and the error values the HTTP boundary maps to
// status codes.
package upstream

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultTimeout is the standard timeout for upstream calls.
	DefaultTimeout = 30 * time.Second
)

// ErrUnparseable is returned when an upstream call succeeded but the
// expected field could not be located in the response payload.
var ErrUnparseable = errors.New("unable to parse response")

// Error describes a non-success HTTP response from a third-party API. The
// boundary maps it to 502 and includes the upstream body.
type Error struct {
	Service string
	Status  int
	Body    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, e.Body)
}

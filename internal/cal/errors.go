package cal

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable is matched by every StoreUnavailableError.
var ErrStoreUnavailable = errors.New("calorie log unavailable")

// StoreUnavailableError reports a failure to read or write the backing log.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

func (e *StoreUnavailableError) Is(target error) bool { return target == ErrStoreUnavailable }

func unavailable(op string, err error) error {
	return &StoreUnavailableError{Op: op, Err: err}
}

// EntryNotFoundError is returned when an entry number falls outside today's
// current 1..Available range. Available is the count at the time of the
// request, not whatever the user last saw.
type EntryNotFoundError struct {
	Requested int
	Available int
}

func (e *EntryNotFoundError) Error() string {
	noun := "entries"
	if e.Available == 1 {
		noun = "entry"
	}
	return fmt.Sprintf("Entry #%d not found. You have %d %s today.", e.Requested, e.Available, noun)
}

// EstimationBackendError reports that the estimation call itself failed
// (network, auth, rate limit, non-2xx status).
type EstimationBackendError struct {
	Backend string
	Err     error
}

func (e *EstimationBackendError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Backend, e.Err)
}

func (e *EstimationBackendError) Unwrap() error { return e.Err }

// EstimationParseError reports a backend response that is not the expected
// JSON shape.
type EstimationParseError struct {
	Raw string
	Err error
}

func (e *EstimationParseError) Error() string {
	return fmt.Sprintf("unreadable estimate: %v", e.Err)
}

func (e *EstimationParseError) Unwrap() error { return e.Err }

package scraper

import (
	"errors"
	"fmt"
)

// ErrParse marks a document that could not be parsed as HTML.
var ErrParse = errors.New("parse document")

// FetchError reports a failed upstream read. StatusCode is zero when no
// response was received (connection failure, timeout).
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the upstream status from err, or 0 when err is not a
// FetchError carrying one.
func StatusCode(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}

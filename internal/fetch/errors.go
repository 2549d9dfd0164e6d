package fetch

import (
	"errors"
	"fmt"

	"github.com/valyala/fasthttp"
)

// Error is returned for any failed upstream fetch: transport failures,
// timeouts, non-2xx statuses and undecodable bodies. It is never retried at
// this layer.
type Error struct {
	URL        string
	StatusCode int // zero when the request never completed
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Timeout() bool {
	return errors.Is(e.Err, fasthttp.ErrTimeout)
}

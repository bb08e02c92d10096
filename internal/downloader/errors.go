package downloader

import (
	"fmt"
)

// TransportError wraps a failure below the HTTP layer: DNS, TLS,
// connection or timeout. The engine does not retry these; resuming is a
// deliberate new session started by the caller.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectedResponseError reports a response whose status was outside the
// success range. It carries the numeric status and its reason phrase so
// the caller can surface a precise message.
type RejectedResponseError struct {
	Status int
	Reason string
}

func (e *RejectedResponseError) Error() string {
	return fmt.Sprintf("server rejected request: %d %s", e.Status, e.Reason)
}

// ContentTypeError reports an HTML response served for a request whose
// destination is not an HTML file: the usual shape of a soft error page
// behind a 200 status.
type ContentTypeError struct {
	ContentType string
	Dest        string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("unexpected content type %q for %s (soft error page?)", e.ContentType, e.Dest)
}

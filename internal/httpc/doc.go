// Package httpc builds the HTTP client used for downloads.
//
// The client identifies itself with a Wget/<version> (<os>) User-Agent,
// follows at most 10 redirects, and performs no retries: a transport
// failure is surfaced to the caller, and resuming is an explicit new
// session rather than an automatic retry loop.
//
// # Usage
//
//	client := httpc.New(httpc.DefaultOptions())
//
//	resp, err := client.Do(ctx, http.MethodGet, url, header)
//
//	// Metadata preflight (used before storing to a bucket)
//	info, err := client.Head(ctx, url)
package httpc

package downloader

import (
	"net/http"
	"path/filepath"
	"strings"
)

// validateResponse gates a response before any byte reaches disk, so a bad
// answer can never corrupt a resumed partial file.
//
// Statuses outside 2xx are rejected with their reason phrase, and a 206
// is rejected unless this session actually asked for a range. A text/html
// content type is rejected unless the destination itself is an HTML file;
// this is the heuristic that catches error pages served with a success
// status. It is best-effort: a server labeling HTML as binary evades it.
//
// A server that ignores a range request and answers 200 with the full
// resource is accepted, but reported via rangeHonored=false so the caller
// restarts the staging file instead of appending duplicate data.
func validateResponse(resp *http.Response, dest string, rangeSent bool) (rangeHonored bool, err error) {
	status := resp.StatusCode
	if status < 200 || status > 299 {
		return false, &RejectedResponseError{Status: status, Reason: http.StatusText(status)}
	}
	if status == http.StatusPartialContent && !rangeSent {
		return false, &RejectedResponseError{Status: status, Reason: "unsolicited partial content"}
	}

	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/html") && !htmlDest(dest) {
		return false, &ContentTypeError{ContentType: ct, Dest: dest}
	}

	// Some servers answer a satisfied range with 200 plus a Content-Range
	// header; treat that like a 206.
	rangeHonored = !rangeSent ||
		status == http.StatusPartialContent ||
		resp.Header.Get("Content-Range") != ""
	return rangeHonored, nil
}

// htmlDest reports whether the destination name is itself an HTML file.
func htmlDest(dest string) bool {
	switch strings.ToLower(filepath.Ext(dest)) {
	case ".html", ".htm":
		return true
	}
	return false
}

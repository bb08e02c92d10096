package httpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestUserAgentHeader(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	client := New(DefaultOptions())
	resp, err := client.Do(context.Background(), http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if !strings.HasPrefix(gotUA, "Wget/") {
		t.Errorf("User-Agent = %q, want Wget/<version> (<os>)", gotUA)
	}
	if !strings.Contains(gotUA, Version) {
		t.Errorf("User-Agent %q missing version %s", gotUA, Version)
	}
}

func TestDoExtraHeaders(t *testing.T) {
	var gotRange string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
	}))
	defer server.Close()

	header := http.Header{}
	header.Set("Range", "bytes=100-")

	client := New(DefaultOptions())
	resp, err := client.Do(context.Background(), http.MethodGet, server.URL, header)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if gotRange != "bytes=100-" {
		t.Errorf("Range header = %q, want %q", gotRange, "bytes=100-")
	}
}

// redirectChain starts a server that issues n redirects before answering 200.
func redirectChain(t *testing.T, n int) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var hop int
		fmt.Sscanf(r.URL.Path, "/hop/%d", &hop)
		if hop < n {
			http.Redirect(w, r, fmt.Sprintf("%s/hop/%d", server.URL, hop+1), http.StatusFound)
			return
		}
		w.Write([]byte("done"))
	}))
	return server
}

func TestRedirectsUpToTenHops(t *testing.T) {
	server := redirectChain(t, 10)
	defer server.Close()

	client := New(DefaultOptions())
	resp, err := client.Do(context.Background(), http.MethodGet, server.URL+"/hop/0", nil)
	if err != nil {
		t.Fatalf("10-hop chain should succeed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestTooManyRedirects(t *testing.T) {
	server := redirectChain(t, 11)
	defer server.Close()

	client := New(DefaultOptions())
	_, err := client.Do(context.Background(), http.MethodGet, server.URL+"/hop/0", nil)
	if !errors.Is(err, ErrTooManyRedirects) {
		t.Errorf("expected ErrTooManyRedirects, got %v", err)
	}
}

func TestHead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		w.Header().Set("Content-Length", "1024")
		w.Header().Set("ETag", `"abc123"`)
		w.Header().Set("Accept-Ranges", "bytes")
		w.Header().Set("Content-Type", "application/octet-stream")
	}))
	defer server.Close()

	client := New(DefaultOptions())
	info, err := client.Head(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Head: %v", err)
	}

	if info.Size != 1024 {
		t.Errorf("size = %d, want 1024", info.Size)
	}
	if info.ETag != "abc123" {
		t.Errorf("ETag = %q, want abc123", info.ETag)
	}
	if !info.AcceptsRanges {
		t.Error("expected AcceptsRanges")
	}
}

func TestNoRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(DefaultOptions())
	resp, err := client.Do(context.Background(), http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retries at this layer)", attempts)
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := New(DefaultOptions())
	if _, err := client.Do(ctx, http.MethodGet, server.URL, nil); err == nil {
		t.Error("expected error due to context cancellation")
	}
}

func TestParseContentRange(t *testing.T) {
	tests := []struct {
		header string
		start  int64
		end    int64
		total  int64
	}{
		{"bytes 0-99/1000", 0, 99, 1000},
		{"bytes 100-199/1000", 100, 199, 1000},
		{"bytes 0-99/*", 0, 99, -1},
	}

	for _, tt := range tests {
		start, end, total, err := ParseContentRange(tt.header)
		if err != nil {
			t.Errorf("ParseContentRange(%q): %v", tt.header, err)
			continue
		}
		if start != tt.start || end != tt.end || total != tt.total {
			t.Errorf("ParseContentRange(%q) = (%d, %d, %d), want (%d, %d, %d)",
				tt.header, start, end, total, tt.start, tt.end, tt.total)
		}
	}
}

func TestCleanETag(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"abc123"`, "abc123"},
		{`W/"abc123"`, "abc123"},
		{"abc123", "abc123"},
		{`""`, ""},
	}

	for _, tt := range tests {
		result := cleanETag(tt.input)
		if result != tt.expected {
			t.Errorf("cleanETag(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

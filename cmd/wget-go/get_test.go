package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestDeriveOutput(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/file.zip", "file.zip"},
		{"https://example.com/path/to/archive.tar.gz", "archive.tar.gz"},
		{"https://example.com/", "index.html"},
		{"https://example.com", "index.html"},
		{"https://example.com/download?id=42", "download"},
		{"://bad url", "index.html"},
	}

	for _, tt := range tests {
		if got := deriveOutput(tt.url); got != tt.want {
			t.Errorf("deriveOutput(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestRunGetHeadPreflight(t *testing.T) {
	data := []byte("0123456789")
	var sawHead bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			sawHead = true
			w.Header().Set("Content-Length", strconv.Itoa(len(data)))
			return
		}
		w.Write(data)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "file.bin")
	if code := run([]string{"get", "-o", dest, server.URL + "/file"}); code != ExitSuccess {
		t.Fatalf("exit = %d, want %d", code, ExitSuccess)
	}

	if !sawHead {
		t.Error("expected a HEAD preflight for the progress total")
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("downloaded content differs from source")
	}
}

func TestRunDispatch(t *testing.T) {
	if code := run(nil); code != ExitInvalidArgs {
		t.Errorf("no args: exit = %d, want %d", code, ExitInvalidArgs)
	}
	if code := run([]string{"help"}); code != ExitSuccess {
		t.Errorf("help: exit = %d, want %d", code, ExitSuccess)
	}
	if code := run([]string{"frobnicate"}); code != ExitInvalidArgs {
		t.Errorf("unknown command: exit = %d, want %d", code, ExitInvalidArgs)
	}
}

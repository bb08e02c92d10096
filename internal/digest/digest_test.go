package digest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeTestFile creates a file with the given content in a temp dir.
func writeTestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return path
}

func TestDetect(t *testing.T) {
	tests := []struct {
		digest string
		alg    Algorithm
	}{
		{"3610a686", CRC32},
		{"5d41402abc4b2a76b9719d911017c592", MD5},
		{"aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d", SHA1},
		{"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", SHA256},
	}

	for _, tt := range tests {
		alg, err := Detect(tt.digest)
		if err != nil {
			t.Errorf("Detect(%q): %v", tt.digest, err)
			continue
		}
		if alg != tt.alg {
			t.Errorf("Detect(%q) = %s, want %s", tt.digest, alg, tt.alg)
		}
	}
}

func TestDetectUnknownFormat(t *testing.T) {
	for _, bad := range []string{"", "abcdef", "0123456789"} {
		if _, err := Detect(bad); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("Detect(%q): expected ErrUnknownFormat, got %v", bad, err)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in  string
		alg Algorithm
		ok  bool
	}{
		{"md5", MD5, true},
		{"MD5", MD5, true},
		{"sha1", SHA1, true},
		{"SHA-256", SHA256, true},
		{"crc32", CRC32, true},
		{"whirlpool", "", false},
	}

	for _, tt := range tests {
		alg, ok := Parse(tt.in)
		if ok != tt.ok || alg != tt.alg {
			t.Errorf("Parse(%q) = (%s, %v), want (%s, %v)", tt.in, alg, ok, tt.alg, tt.ok)
		}
	}
}

func TestSumFile(t *testing.T) {
	path := writeTestFile(t, "hello")

	sums, err := SumFile(path, All()...)
	if err != nil {
		t.Fatalf("SumFile: %v", err)
	}

	want := map[Algorithm]string{
		MD5:    "5d41402abc4b2a76b9719d911017c592",
		SHA1:   "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d",
		SHA256: "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		CRC32:  "3610a686",
	}
	for alg, expected := range want {
		if sums[alg] != expected {
			t.Errorf("%s = %s, want %s", alg, sums[alg], expected)
		}
	}
}

func TestSetChunkBoundaryIndependence(t *testing.T) {
	data := make([]byte, 100*1024)
	for i := range data {
		data[i] = byte(i % 251)
	}

	onePass := NewSet(All()...)
	onePass.Write(data)

	chunked := NewSet(All()...)
	for _, n := range []int{1, 7, 4096, 13, 100 * 1024} {
		if n > len(data) {
			n = len(data)
		}
		chunked.Write(data[:n])
		data = data[n:]
		if len(data) == 0 {
			break
		}
	}

	a, b := onePass.Sums(), chunked.Sums()
	for _, alg := range All() {
		if a[alg] != b[alg] {
			t.Errorf("%s differs across chunkings: %s vs %s", alg, a[alg], b[alg])
		}
	}
}

func TestVerifyFileEmpty(t *testing.T) {
	path := writeTestFile(t, "")

	// MD5 of the empty string.
	alg, got, err := VerifyFile(path, "d41d8cd98f00b204e9800998ecf8427e")
	if err != nil {
		t.Fatalf("VerifyFile: %v", err)
	}
	if alg != MD5 {
		t.Errorf("detected algorithm = %s, want MD5", alg)
	}
	if got != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("computed digest = %s", got)
	}
}

func TestVerifyFileCaseInsensitive(t *testing.T) {
	path := writeTestFile(t, "hello")

	if _, _, err := VerifyFile(path, "5D41402ABC4B2A76B9719D911017C592"); err != nil {
		t.Errorf("uppercase expected digest should verify: %v", err)
	}
}

func TestVerifyFileMismatch(t *testing.T) {
	path := writeTestFile(t, "hello")

	_, _, err := VerifyFile(path, "00000000000000000000000000000000")
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if mismatch.Algorithm != MD5 {
		t.Errorf("mismatch algorithm = %s, want MD5", mismatch.Algorithm)
	}
	if mismatch.Got != "5d41402abc4b2a76b9719d911017c592" {
		t.Errorf("mismatch got = %s", mismatch.Got)
	}
}

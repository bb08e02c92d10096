package digest

import (
	"bufio"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"os"
	"strings"
)

// ErrUnknownFormat is returned when an expected digest string matches no
// supported algorithm's output length.
var ErrUnknownFormat = errors.New("digest: unrecognized digest format")

// Algorithm identifies one of the supported checksum algorithms.
type Algorithm string

const (
	MD5    Algorithm = "MD5"
	SHA1   Algorithm = "SHA1"
	SHA256 Algorithm = "SHA256"
	CRC32  Algorithm = "CRC32"
)

// All returns every supported algorithm in display order.
func All() []Algorithm {
	return []Algorithm{MD5, SHA1, SHA256, CRC32}
}

// HexLen returns the length of the algorithm's hex-encoded output.
func (a Algorithm) HexLen() int {
	switch a {
	case CRC32:
		return 8
	case MD5:
		return 32
	case SHA1:
		return 40
	case SHA256:
		return 64
	}
	return 0
}

// newHash returns a fresh hash state for the algorithm.
func (a Algorithm) newHash() hash.Hash {
	switch a {
	case MD5:
		return md5.New()
	case SHA1:
		return sha1.New()
	case SHA256:
		return sha256.New()
	case CRC32:
		return crc32.NewIEEE()
	}
	panic(fmt.Sprintf("digest: unsupported algorithm %q", string(a)))
}

// Parse converts a user-supplied algorithm name to an Algorithm.
func Parse(s string) (Algorithm, bool) {
	switch strings.ToLower(s) {
	case "md5":
		return MD5, true
	case "sha1", "sha-1":
		return SHA1, true
	case "sha256", "sha-256":
		return SHA256, true
	case "crc32":
		return CRC32, true
	}
	return "", false
}

// Detect determines the algorithm of an expected digest string from its
// length. Each supported algorithm has a unique hex output length, so the
// mapping is unambiguous. Returns ErrUnknownFormat when no algorithm
// matches.
func Detect(hexDigest string) (Algorithm, error) {
	for _, a := range All() {
		if len(hexDigest) == a.HexLen() {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q (%d hex chars)", ErrUnknownFormat, hexDigest, len(hexDigest))
}

// MismatchError is returned when a computed digest disagrees with the
// expected value.
type MismatchError struct {
	Algorithm Algorithm
	Want      string
	Got       string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("digest: %s mismatch: expected %s, got %s", e.Algorithm, e.Want, e.Got)
}

// Set maintains one running hash state per requested algorithm. Every
// Write feeds the same chunk to all states, so the states always agree on
// the byte stream they have seen. Set implements io.Writer and can be
// wired into an io.MultiWriter alongside the output file.
type Set struct {
	order  []Algorithm
	states map[Algorithm]hash.Hash
}

// NewSet creates a Set for the given algorithms. Duplicates are ignored.
func NewSet(algs ...Algorithm) *Set {
	s := &Set{states: make(map[Algorithm]hash.Hash, len(algs))}
	for _, a := range algs {
		if _, ok := s.states[a]; ok {
			continue
		}
		s.order = append(s.order, a)
		s.states[a] = a.newHash()
	}
	return s
}

// Write feeds p to every hash state. It never fails; the error return
// satisfies io.Writer.
func (s *Set) Write(p []byte) (int, error) {
	for _, a := range s.order {
		s.states[a].Write(p)
	}
	return len(p), nil
}

// Sums finalizes all states and returns lowercase hex digests keyed by
// algorithm. The states remain usable for further writes.
func (s *Set) Sums() map[Algorithm]string {
	sums := make(map[Algorithm]string, len(s.order))
	for _, a := range s.order {
		sums[a] = hex.EncodeToString(s.states[a].Sum(nil))
	}
	return sums
}

// Algorithms returns the algorithms in the set, in the order requested.
func (s *Set) Algorithms() []Algorithm {
	return s.order
}

// SumFile streams the file at path through a fresh Set and returns the
// digests. The file is read once regardless of how many algorithms were
// requested.
func SumFile(path string, algs ...Algorithm) (map[Algorithm]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open for hashing: %w", err)
	}
	defer f.Close()

	set := NewSet(algs...)
	if _, err := io.Copy(set, bufio.NewReaderSize(f, 256*1024)); err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}
	return set.Sums(), nil
}

// VerifyFile checks the file at path against an expected hex digest whose
// algorithm is detected from its length. Comparison is case-insensitive.
// Returns the detected algorithm and the computed value; a disagreement is
// reported as a *MismatchError.
func VerifyFile(path, expected string) (Algorithm, string, error) {
	alg, err := Detect(expected)
	if err != nil {
		return "", "", err
	}

	sums, err := SumFile(path, alg)
	if err != nil {
		return alg, "", err
	}

	got := sums[alg]
	if !strings.EqualFold(got, expected) {
		return alg, got, &MismatchError{Algorithm: alg, Want: strings.ToLower(expected), Got: got}
	}
	return alg, got, nil
}

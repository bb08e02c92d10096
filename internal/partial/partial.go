package partial

import (
	"fmt"
	"os"
)

// StagingSuffix is appended to the destination path to form the staging
// file name.
const StagingSuffix = ".part"

// StagingPath returns the staging file path for a destination.
func StagingPath(dest string) string {
	return dest + StagingSuffix
}

// SizeMismatchError is returned by Finalize when the staging file's length
// disagrees with the server-declared total.
type SizeMismatchError struct {
	Want int64
	Got  int64
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("partial: size mismatch: expected %d bytes, got %d", e.Want, e.Got)
}

// File is the staging file for a single download. Exactly one File owns
// the staging path for the duration of a session; Append is the only
// operation that grows it and never seeks backward, so the on-disk length
// always equals the bytes acknowledged so far.
type File struct {
	dest    string
	staging string
	f       *os.File
	size    int64
	closed  bool
}

// Open opens (or creates) the staging file for dest. With resume set, any
// existing staging content is kept and its length becomes the resume
// offset; otherwise the file is truncated to zero.
func Open(dest string, resume bool) (*File, error) {
	staging := StagingPath(dest)

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if !resume {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(staging, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("open staging file: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat staging file: %w", err)
	}

	return &File{
		dest:    dest,
		staging: staging,
		f:       f,
		size:    fi.Size(),
	}, nil
}

// Size returns the current staging file length in bytes.
func (p *File) Size() int64 {
	return p.size
}

// StagingPath returns the path of the staging file.
func (p *File) StagingPath() string {
	return p.staging
}

// Append writes b at the end of the staging file.
func (p *File) Append(b []byte) (int, error) {
	n, err := p.f.Write(b)
	p.size += int64(n)
	if err != nil {
		return n, fmt.Errorf("append to staging file: %w", err)
	}
	return n, nil
}

// Restart discards all staged content, resetting the write position to
// offset zero. Used when the server ignored a range request and answered
// with the full resource; appending the full body after existing content
// would duplicate data.
func (p *File) Restart() error {
	if err := p.f.Truncate(0); err != nil {
		return fmt.Errorf("truncate staging file: %w", err)
	}
	p.size = 0
	return nil
}

// Finalize flushes and closes the staging file, then checks its length
// against the server-declared total. A negative expectedTotal means the
// total was never known and the check is skipped. The staging file keeps
// its suffix until Promote.
func (p *File) Finalize(expectedTotal int64) error {
	if err := p.f.Sync(); err != nil {
		return fmt.Errorf("sync staging file: %w", err)
	}
	if err := p.close(); err != nil {
		return err
	}
	if expectedTotal >= 0 && p.size != expectedTotal {
		return &SizeMismatchError{Want: expectedTotal, Got: p.size}
	}
	return nil
}

// Promote renames the staging file to the destination path and returns
// the destination. Only called after Finalize (and any verification)
// succeeded.
func (p *File) Promote() (string, error) {
	if err := p.close(); err != nil {
		return "", err
	}
	if err := os.Rename(p.staging, p.dest); err != nil {
		return "", fmt.Errorf("rename staging file: %w", err)
	}
	return p.dest, nil
}

// Close closes the staging file without renaming it, leaving it resumable.
// Safe to call multiple times.
func (p *File) Close() error {
	return p.close()
}

func (p *File) close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.f.Close(); err != nil {
		return fmt.Errorf("close staging file: %w", err)
	}
	return nil
}

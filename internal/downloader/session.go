package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/TC999/wget-go/internal/digest"
	"github.com/TC999/wget-go/internal/httpc"
	"github.com/TC999/wget-go/internal/partial"
)

// defaultBufferSize is the chunk size of the stream loop.
const defaultBufferSize = 256 * 1024

// ProgressFunc receives a progress observation per chunk: bytes on disk so
// far and the declared total, or -1 when the total is unknown. It is
// fire-and-forget; nothing it does can abort the download.
type ProgressFunc func(done, total int64)

// Request describes one download. It is immutable once the session starts.
type Request struct {
	// URL is the resource to fetch.
	URL string

	// Dest is the destination path. The staging file lives at
	// Dest + ".part" until the session succeeds.
	Dest string

	// Resume continues from an existing staging file instead of
	// truncating it.
	Resume bool

	// ExpectedDigest is an optional hex digest to verify the completed
	// file against. The algorithm is detected from its length.
	ExpectedDigest string

	// ReportHashes requests all supported digests of the completed file.
	ReportHashes bool
}

// Options carries the session's collaborators.
type Options struct {
	// Client issues the HTTP request. Defaults to httpc.New(DefaultOptions()).
	Client *httpc.Client

	// Logger receives structured session events. Defaults to a no-op.
	Logger *zap.Logger

	// Progress is the optional progress collaborator.
	Progress ProgressFunc

	// BufferSize is the stream chunk size. Default: 256KB.
	BufferSize int
}

// Result reports a completed download.
type Result struct {
	// Path is the final destination path.
	Path string

	// Bytes is the size of the completed file.
	Bytes int64

	// Resumed reports how many bytes were already on disk when the
	// session started.
	Resumed int64

	// Digests holds the computed digests, keyed by algorithm. Populated
	// when hash reporting or verification was requested.
	Digests map[digest.Algorithm]string

	// VerifiedWith names the algorithm used for verification, or "" if
	// no verification was requested.
	VerifiedWith digest.Algorithm
}

// sessionState tracks where the state machine is; transitions are
// monotonic and logged.
type sessionState int

const (
	stateInitializing sessionState = iota
	stateRequesting
	stateValidating
	stateStreaming
	stateFinalizing
	stateCompleted
	stateFailed
)

func (s sessionState) String() string {
	switch s {
	case stateInitializing:
		return "initializing"
	case stateRequesting:
		return "requesting"
	case stateValidating:
		return "validating"
	case stateStreaming:
		return "streaming"
	case stateFinalizing:
		return "finalizing"
	case stateCompleted:
		return "completed"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// session is single-use; Run creates one per transfer.
type session struct {
	req    Request
	opts   Options
	logger *zap.Logger
	state  sessionState
}

// Run executes one download session to completion or failure. On failure
// the staging file is left behind so a later session can resume it.
func Run(ctx context.Context, req Request, opts Options) (*Result, error) {
	if opts.Client == nil {
		opts.Client = httpc.New(httpc.DefaultOptions())
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaultBufferSize
	}

	s := &session{
		req:    req,
		opts:   opts,
		logger: opts.Logger.With(zap.String("url", req.URL), zap.String("dest", req.Dest)),
	}
	return s.run(ctx)
}

func (s *session) transition(next sessionState) {
	s.logger.Debug("session state", zap.Stringer("from", s.state), zap.Stringer("to", next))
	s.state = next
}

func (s *session) fail(err error) (*Result, error) {
	s.transition(stateFailed)
	return nil, err
}

func (s *session) run(ctx context.Context) (*Result, error) {
	// A malformed expected digest fails the session before any network
	// or disk activity.
	var verifyAlg digest.Algorithm
	if s.req.ExpectedDigest != "" {
		alg, err := digest.Detect(s.req.ExpectedDigest)
		if err != nil {
			return s.fail(err)
		}
		verifyAlg = alg
	}

	pf, err := partial.Open(s.req.Dest, s.req.Resume)
	if err != nil {
		return s.fail(err)
	}
	defer pf.Close()

	offset := pf.Size()
	resumed := offset

	header := http.Header{}
	rangeSent := false
	if s.req.Resume && offset > 0 {
		header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
		rangeSent = true
		s.logger.Info("resuming download", zap.Int64("offset", offset))
	}

	s.transition(stateRequesting)
	resp, err := s.opts.Client.Do(ctx, http.MethodGet, s.req.URL, header)
	if err != nil {
		if errors.Is(err, httpc.ErrTooManyRedirects) {
			return s.fail(httpc.ErrTooManyRedirects)
		}
		return s.fail(&TransportError{URL: s.req.URL, Err: err})
	}
	defer resp.Body.Close()

	s.transition(stateValidating)
	rangeHonored, err := validateResponse(resp, s.req.Dest, rangeSent)
	if err != nil {
		return s.fail(err)
	}

	if rangeSent && !rangeHonored {
		// Full content is coming; appending it after the staged prefix
		// would duplicate data.
		s.logger.Warn("server ignored range request, restarting from zero",
			zap.Int64("discarded", offset))
		if err := pf.Restart(); err != nil {
			return s.fail(err)
		}
		offset = 0
		resumed = 0
	}

	total := declaredTotal(resp, offset)

	s.transition(stateStreaming)
	written, err := s.stream(pf, resp.Body, total)
	if err != nil {
		return s.fail(err)
	}
	s.logger.Info("stream complete",
		zap.Int64("received", written),
		zap.Int64("total", pf.Size()))

	s.transition(stateFinalizing)
	if err := pf.Finalize(total); err != nil {
		return s.fail(err)
	}

	res := &Result{
		Bytes:        pf.Size(),
		Resumed:      resumed,
		VerifiedWith: verifyAlg,
	}

	// Digests cover the complete file from offset zero, so they are
	// computed by re-streaming the staging file, before the rename.
	if err := s.computeDigests(pf.StagingPath(), verifyAlg, res); err != nil {
		return s.fail(err)
	}

	path, err := pf.Promote()
	if err != nil {
		return s.fail(err)
	}
	res.Path = path

	s.transition(stateCompleted)
	s.logger.Info("download complete", zap.Int64("bytes", res.Bytes))
	return res, nil
}

// stream copies the response body to the staging file chunk by chunk,
// strictly in sequence: a chunk is appended and reported before the next
// network read.
func (s *session) stream(pf *partial.File, body io.Reader, total int64) (int64, error) {
	buf := make([]byte, s.opts.BufferSize)
	var written int64

	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := pf.Append(buf[:n]); err != nil {
				return written, err
			}
			written += int64(n)
			if s.opts.Progress != nil {
				s.opts.Progress(pf.Size(), total)
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, &TransportError{URL: s.req.URL, Err: readErr}
		}
	}
}

// computeDigests fills res.Digests by re-reading the completed file, and
// checks the expected digest when verification was requested.
func (s *session) computeDigests(path string, verifyAlg digest.Algorithm, res *Result) error {
	switch {
	case s.req.ReportHashes:
		sums, err := digest.SumFile(path, digest.All()...)
		if err != nil {
			return err
		}
		res.Digests = sums
	case verifyAlg != "":
		sums, err := digest.SumFile(path, verifyAlg)
		if err != nil {
			return err
		}
		res.Digests = sums
	default:
		return nil
	}

	if verifyAlg != "" {
		got := res.Digests[verifyAlg]
		if !strings.EqualFold(got, s.req.ExpectedDigest) {
			return &digest.MismatchError{Algorithm: verifyAlg, Want: s.req.ExpectedDigest, Got: got}
		}
		s.logger.Info("digest verified",
			zap.String("algorithm", string(verifyAlg)),
			zap.String("digest", got))
	}
	return nil
}

// declaredTotal derives the full resource size from the response: the
// Content-Range total for a partial answer, otherwise offset plus the
// body length. Returns -1 when the server declared nothing usable.
func declaredTotal(resp *http.Response, offset int64) int64 {
	if cr := resp.Header.Get("Content-Range"); cr != "" {
		if _, _, total, err := httpc.ParseContentRange(cr); err == nil {
			return total
		}
	}
	if resp.StatusCode == http.StatusPartialContent {
		if resp.ContentLength >= 0 {
			return offset + resp.ContentLength
		}
		return -1
	}
	return resp.ContentLength
}

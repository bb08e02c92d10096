package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/TC999/wget-go/internal/config"
	"github.com/TC999/wget-go/internal/digest"
	"github.com/TC999/wget-go/internal/downloader"
	"github.com/TC999/wget-go/internal/httpc"
	"github.com/TC999/wget-go/internal/logger"
	"github.com/TC999/wget-go/internal/partial"
	"github.com/TC999/wget-go/internal/progress"
	"github.com/TC999/wget-go/internal/store"
)

func runGet(args []string) int {
	fs := flag.NewFlagSet("get", flag.ExitOnError)

	var output string
	fs.StringVar(&output, "output", "", "Output file path (default: inferred from URL)")
	fs.StringVar(&output, "o", "", "Shorthand for -output")
	resume := fs.Bool("resume", true, "Resume from an existing partial file")
	hashReport := fs.Bool("hash", false, "Report all digests of the downloaded file")
	verify := fs.String("verify", "", "Verify against a hex digest (algorithm detected from length)")
	showProgress := fs.Bool("progress", true, "Show progress output")
	timeout := fs.Duration("timeout", 0, "Request timeout (0 = none)")
	bucket := fs.String("bucket", "", "Copy the completed file into this bucket URL")
	configPath := fs.String("config", "", "Path to YAML configuration file")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (console, json)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: wget-go get [options] <url>

Download a file over HTTP/HTTPS. Interrupted transfers leave a .part file
next to the destination and are resumed on the next run.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one URL is required")
		fs.Usage()
		return ExitInvalidArgs
	}
	rawURL := fs.Arg(0)

	cfg, code := loadConfig(*configPath)
	if code != ExitSuccess {
		return code
	}

	// Flags that were actually set win over config and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "resume":
			cfg.Resume = *resume
		case "progress":
			cfg.Progress = *showProgress
		case "timeout":
			cfg.Timeout = *timeout
		case "bucket":
			cfg.Bucket = *bucket
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-format":
			cfg.Log.Format = *logFormat
		}
	})

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}
	defer log.Sync()

	dest := output
	if dest == "" {
		dest = filepath.Join(cfg.OutputDir, deriveOutput(rawURL))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[wget-go] Received interrupt, shutting down...")
		cancel()
	}()

	client := httpc.New(httpc.Options{Timeout: cfg.Timeout})

	var progressFn downloader.ProgressFunc
	if cfg.Progress {
		var offset int64
		if fi, err := os.Stat(partial.StagingPath(dest)); err == nil && cfg.Resume {
			offset = fi.Size()
		}

		// Best-effort HEAD preflight so the display starts with the total;
		// servers that reject HEAD leave it unknown until the GET declares it.
		total := int64(-1)
		if info, err := client.Head(ctx, rawURL); err == nil && info.Size > 0 {
			total = info.Size
			log.Debug("preflight", zap.Int64("size", info.Size), zap.String("etag", info.ETag))
		}

		reporter := progress.NewReporter(progress.Options{
			TotalSize:     total,
			SourceURL:     rawURL,
			InitialOffset: offset,
		})
		reporter.Start()
		defer reporter.Stop()
		progressFn = reporter.Update
	}

	res, err := downloader.Run(ctx, downloader.Request{
		URL:            rawURL,
		Dest:           dest,
		Resume:         cfg.Resume,
		ExpectedDigest: *verify,
		ReportHashes:   *hashReport,
	}, downloader.Options{
		Client:     client,
		Logger:     log,
		Progress:   progressFn,
		BufferSize: int(cfg.BufferSize),
	})
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "[wget-go] Interrupted, partial file kept for resume")
			return ExitGeneralError
		}
		return reportGetError(err)
	}

	fmt.Fprintf(os.Stderr, "[wget-go] Saved to %s (%s)\n", res.Path, progress.FormatBytes(res.Bytes))

	if *hashReport {
		printDigests(res.Path, res.Digests)
	}
	if *verify != "" {
		fmt.Fprintf(os.Stderr, "[wget-go] Verified %s: %s\n", res.VerifiedWith, res.Digests[res.VerifiedWith])
	}

	if cfg.Bucket != "" {
		key := filepath.Base(res.Path)
		n, err := store.Put(ctx, cfg.Bucket, key, res.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error storing to bucket: %v\n", err)
			return ExitStorageError
		}
		log.Info("stored to bucket",
			zap.String("bucket", cfg.Bucket),
			zap.String("key", key),
			zap.Int64("bytes", n))
		fmt.Fprintf(os.Stderr, "[wget-go] Stored to %s/%s\n", cfg.Bucket, key)
	}

	return ExitSuccess
}

// loadConfig builds the effective config from defaults, an optional file
// and the environment.
func loadConfig(path string) (config.Config, int) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return cfg, ExitInvalidArgs
		}
		cfg = loaded
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cfg, ExitInvalidArgs
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cfg, ExitInvalidArgs
	}
	return cfg, ExitSuccess
}

// reportGetError prints a download failure and picks its exit code.
func reportGetError(err error) int {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var mismatch *digest.MismatchError
	if errors.As(err, &mismatch) || errors.Is(err, digest.ErrUnknownFormat) {
		return ExitVerifyFailed
	}

	var rejected *downloader.RejectedResponseError
	var contentType *downloader.ContentTypeError
	var transport *downloader.TransportError
	if errors.As(err, &rejected) || errors.As(err, &contentType) ||
		errors.As(err, &transport) || errors.Is(err, httpc.ErrTooManyRedirects) {
		return ExitSourceError
	}

	var sizeMismatch *partial.SizeMismatchError
	if errors.As(err, &sizeMismatch) {
		fmt.Fprintln(os.Stderr, "[wget-go] Partial file kept, run again to resume")
		return ExitGeneralError
	}

	return ExitGeneralError
}

// deriveOutput infers a destination file name from the URL path,
// falling back to index.html the way wget does.
func deriveOutput(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "index.html"
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "index.html"
	}
	return name
}

// printDigests prints the digest report for a file.
func printDigests(path string, sums map[digest.Algorithm]string) {
	fmt.Fprintf(os.Stderr, "\nDigests for %s:\n", path)
	for _, alg := range digest.All() {
		if v, ok := sums[alg]; ok {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", alg, v)
		}
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/TC999/wget-go/internal/progress"
	"github.com/TC999/wget-go/internal/store"
)

func runStore(args []string) int {
	fs := flag.NewFlagSet("store", flag.ExitOnError)

	bucket := fs.String("bucket", "", "Destination bucket URL (required)")
	object := fs.String("object", "", "Destination object key (default: file name)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: wget-go store [options] <file>

Copy a local file into object storage. The bucket is addressed by a
gocloud URL, e.g. s3://my-bucket or gs://my-bucket.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}
	if fs.NArg() != 1 || *bucket == "" {
		fmt.Fprintln(os.Stderr, "Error: -bucket and exactly one file are required")
		fs.Usage()
		return ExitInvalidArgs
	}
	path := fs.Arg(0)

	key := *object
	if key == "" {
		key = filepath.Base(path)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	n, err := store.Put(ctx, *bucket, key, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitStorageError
	}

	fmt.Fprintf(os.Stderr, "[wget-go] Stored %s (%s) to %s/%s\n",
		path, progress.FormatBytes(n), *bucket, key)
	return ExitSuccess
}

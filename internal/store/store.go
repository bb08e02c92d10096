// Package store copies completed downloads into object storage.
//
// Buckets are addressed by gocloud.dev URLs (s3://bucket, gs://bucket);
// the drivers are registered by the importing command. This is a plain
// single-object put: the file was already length-checked and verified by
// the download session before it gets here.
package store

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"gocloud.dev/blob"
)

// Put uploads the file at path to the bucket under key and returns the
// number of bytes written.
func Put(ctx context.Context, bucketURL, key, path string) (int64, error) {
	bkt, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return 0, fmt.Errorf("open bucket: %w", err)
	}
	defer bkt.Close()

	return PutBucket(ctx, bkt, key, path)
}

// PutBucket is Put against an already-open bucket.
func PutBucket(ctx context.Context, bkt *blob.Bucket, key, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	w, err := bkt.NewWriter(ctx, key, nil)
	if err != nil {
		return 0, fmt.Errorf("create object %s: %w", key, err)
	}

	n, err := io.Copy(w, bufio.NewReaderSize(f, 1024*1024))
	if err != nil {
		w.Close()
		return n, fmt.Errorf("write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return n, fmt.Errorf("finish object %s: %w", key, err)
	}
	return n, nil
}

// Stat returns the size of an object, or an error if it does not exist.
func Stat(ctx context.Context, bucketURL, key string) (int64, error) {
	bkt, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return 0, fmt.Errorf("open bucket: %w", err)
	}
	defer bkt.Close()

	attrs, err := bkt.Attributes(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("stat object %s: %w", key, err)
	}
	return attrs.Size, nil
}

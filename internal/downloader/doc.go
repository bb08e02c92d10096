// Package downloader runs a single resumable HTTP download.
//
// A session moves through a fixed sequence of states: initialize the
// staging file and resume offset, issue the request (with a Range header
// when resuming past offset zero), validate status and content type before
// any disk write, stream the body chunk by chunk, then finalize: length
// check, optional digest verification over the completed file, and rename
// to the destination.
//
// # Usage
//
//	res, err := downloader.Run(ctx, downloader.Request{
//	    URL:    "https://example.com/file.zip",
//	    Dest:   "file.zip",
//	    Resume: true,
//	}, downloader.Options{Logger: logger})
//
// The stream loop is strictly sequential: network read, disk append and
// progress notification for a chunk complete before the next read. Bytes
// land on disk in exactly the order received.
//
// Digests are always computed by re-streaming the finalized file from
// disk, never by folding only the newly downloaded suffix of a resumed
// transfer into fresh hash state.
//
// Failures leave the staging file in place; a future session resumes from
// its length. Nothing is retried inside the engine.
package downloader

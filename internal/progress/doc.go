// Package progress provides progress reporting for downloads.
//
// The reporter prints human-readable progress to stderr: completion
// percentage, transfer speed and ETA, refreshed on a fixed interval.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{
//	    SourceURL: url,
//	    TotalSize: totalBytes, // -1 if unknown
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
//	// From the download stream loop
//	reporter.Update(bytesDone, bytesTotal)
//
// # Output Format
//
//	[wget-go] Downloading: https://example.com/file.tar.gz
//	[wget-go] Progress: 45.2% | 1.13 GB / 2.50 GB | Speed: 12.40 MB/s | ETA: 1m 52s
package progress

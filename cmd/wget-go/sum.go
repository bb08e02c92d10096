package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/TC999/wget-go/internal/digest"
)

func runSum(args []string) int {
	fs := flag.NewFlagSet("sum", flag.ExitOnError)

	verify := fs.String("verify", "", "Verify against a hex digest instead of printing a report")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: wget-go sum [options] <file>

Compute MD5, SHA1, SHA256 and CRC32 digests of a local file in one pass.
With -verify, check the file against a single digest whose algorithm is
detected from its length.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one file is required")
		fs.Usage()
		return ExitInvalidArgs
	}
	path := fs.Arg(0)

	if *verify != "" {
		alg, got, err := digest.VerifyFile(path, *verify)
		if err != nil {
			var mismatch *digest.MismatchError
			switch {
			case errors.As(err, &mismatch):
				fmt.Fprintf(os.Stderr, "FAILED: %s expected %s, got %s\n",
					mismatch.Algorithm, mismatch.Want, mismatch.Got)
				return ExitVerifyFailed
			case errors.Is(err, digest.ErrUnknownFormat):
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return ExitVerifyFailed
			default:
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return ExitGeneralError
			}
		}
		fmt.Printf("OK: %s %s\n", alg, got)
		return ExitSuccess
	}

	sums, err := digest.SumFile(path, digest.All()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	fmt.Printf("Digests for %s:\n", path)
	for _, alg := range digest.All() {
		fmt.Printf("  %s: %s\n", alg, sums[alg])
	}
	return ExitSuccess
}

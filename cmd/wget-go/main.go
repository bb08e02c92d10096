package main

import (
	"fmt"
	"os"
	"strings"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitInvalidArgs  = 2
	ExitSourceError  = 3
	ExitStorageError = 5
	ExitVerifyFailed = 7
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "get":
		return runGet(cmdArgs)
	case "sum":
		return runSum(cmdArgs)
	case "store":
		return runStore(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		// Bare URL: treat it as an implicit get.
		if strings.HasPrefix(command, "http://") || strings.HasPrefix(command, "https://") {
			return runGet(args)
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: wget-go <command> [options]

Commands:
  get     Download a file over HTTP/HTTPS with resume and verification
  sum     Compute digests (MD5/SHA1/SHA256/CRC32) of a local file
  store   Copy a local file into object storage (s3://, gs://)

A bare URL is shorthand for 'get':

  wget-go https://example.com/file.zip

Run 'wget-go <command> -h' for command-specific help.`)
}

// Package config defines configuration for the wget-go CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (WGET_ prefix)
//   - YAML configuration file
//
// Flags win over environment variables, which win over the file, which
// wins over defaults.
//
// # Structure
//
//	type Config struct {
//	    OutputDir  string
//	    Resume     bool
//	    Progress   bool
//	    Timeout    time.Duration
//	    BufferSize int64
//	    Bucket     string
//	    Log        LogConfig
//	}
package config

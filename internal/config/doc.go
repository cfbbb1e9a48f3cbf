// Package config loads pshhmi's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/pshhmi/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	api_bind = "127.0.0.1:8080"   # coordinator HTTP address
//	poll_seconds = 5               # snapshot poll cadence
//	protocol = "auto"              # auto | mode | legacy
//	discard_stale_polls = true     # drop completions older than the last applied poll
//	log_file = "~/.local/state/pshhmi/pshhmi.log"
//	log_level = "info"
//	metrics_addr = ""              # e.g. ":9109"; empty disables /metrics
//
// Every field is optional. Tilde expansion is performed on log_file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML syntax errors, an unknown protocol and a negative
// poll_seconds. Missing files are not an error.
package config

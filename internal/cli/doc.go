// Package cli turns command-line flags into an app.Config. Invalid input is
// reported as an *ExitError carrying the process exit code.
package cli

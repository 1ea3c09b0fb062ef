// Package cli contains the cobra command tree. Commands are thin
// translators: parse flags, call a service through wire, render the
// result.
package cli

import "context"

// cmdContext returns the context used by command handlers. Commands
// are short-lived processes; cancellation comes from the OS.
func cmdContext() context.Context {
	return context.Background()
}

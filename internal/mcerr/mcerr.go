// Package mcerr defines the sentinel error kinds shared across the
// scanner: every workflow failure wraps one of these with
// fmt.Errorf's %w so callers can classify failures with errors.Is while
// the underlying cause is preserved for logging.
package mcerr

import "errors"

var (
	// ErrNetwork covers connect/read/write/timeout failures.
	ErrNetwork = errors.New("network error")
	// ErrProtocol covers malformed VarInt, short reads, invalid UTF-8,
	// unexpected packet IDs, and invalid bool bytes.
	ErrProtocol = errors.New("protocol error")
	// ErrCompression covers zlib inflate/deflate failures.
	ErrCompression = errors.New("compression error")
	// ErrJSON covers status JSON decode failures.
	ErrJSON = errors.New("json error")
	// ErrStore covers persistence failures.
	ErrStore = errors.New("store error")
)

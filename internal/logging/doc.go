// Package logging provides structured logging for dp564ctl.
//
// This package wraps zap with convenience functions for the logging patterns
// used throughout the controller: discovery progress, session state changes,
// and raw protocol byte dumps.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (hex dumps, frame classification)
//   - Info: Normal operations (discovery progress, connections, state changes)
//   - Warn: Non-fatal issues (connection drops)
//   - Error: Serious failures
//
// # Silent by Default
//
// dp564ctl is an interactive tool, so logging is disabled unless requested.
// Set DP564CTL_LOG_LEVEL to enable it:
//
//	DP564CTL_LOG_LEVEL=debug dp564ctl control
//
// Output goes to stderr so it never mixes with the operator surface.
//
// # Raw Byte Dumps
//
// LogRawBytes emits both hex and printable-ASCII renderings of a buffer at
// debug level. This is the main tool for investigating the partially
// understood frame headers against a live device.
package logging

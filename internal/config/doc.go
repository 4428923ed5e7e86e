// Package config manages the persistent user configuration for dp564ctl.
//
// The configuration file caches every DP564 the tool has confirmed on the
// network, keyed by MAC address, along with the preferences that shape the
// discovery sweep. A cached address lets the control loop dial the monitor
// directly and fall back to a fresh sweep only when the cached entry stops
// answering.
//
// # File Location
//
// The file lives in the platform configuration directory:
//   - Linux: $XDG_CONFIG_HOME/dp564ctl/config.yaml or ~/.config/dp564ctl/config.yaml
//   - macOS: ~/.config/dp564ctl/config.yaml
//   - Windows: %LOCALAPPDATA%\dp564ctl\config.yaml
//
// # Concurrency
//
// The registry is loaded once per process and shared. Saves are serialized
// and written atomically (temp file plus rename) so a crash mid-save never
// leaves a corrupt file behind.
package config

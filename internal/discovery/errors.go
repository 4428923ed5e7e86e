package discovery

import "errors"

// ErrNotFound is returned when a sweep exhausts every candidate without
// confirming a device. This is a normal outcome, not a fault: the sweep is
// never retried automatically, and callers decide whether to surface it or
// run again.
var ErrNotFound = errors.New("no matching device found on subnet")

// ErrNoLocalAddress is returned when the sweep cannot determine a usable
// local IPv4 address to derive candidates from.
var ErrNoLocalAddress = errors.New("no local IPv4 address available")

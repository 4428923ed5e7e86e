// Package session maintains the persistent control connection to a DP564.
//
// A Session owns the one TCP connection to the device and drives everything
// that happens on it: the two-step handshake with its mandatory inter-write
// spacing, periodic keep-alive emission, outbound command encoding, and
// classification of inbound acknowledgement and unsolicited-update frames
// into the last-known DeviceState.
//
// # Control Model
//
// The session is tick-driven and single-threaded by design. The owner calls
// Connect once a discovered address is available, then calls Tick with the
// elapsed time since the previous tick, frequently enough that the 10s
// heartbeat interval is honored. Commands (SetVolume, SetDim, SetSource)
// are issued between ticks and are rejected outside the Ready state.
//
// Blocking operations use short bounded timeouts, so a tick never stalls
// indefinitely; a timeout while draining simply means no more inbound data.
//
// # State Machine
//
//	Disconnected -> HandshakePending -> Ready
//
// Any detected transport failure returns the session to Disconnected. The
// device state is never cleared on disconnect: last-known values stay
// available as stale data, and nothing here is fatal to the process. The
// owner re-attempts Connect on its next cycle if it wants the session back.
package session

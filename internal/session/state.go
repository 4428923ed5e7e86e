package session

import (
	"fmt"
	"strings"

	"github.com/muurk/dp564ctl/internal/protocol"
)

// ConnState is the session's connection state.
type ConnState int

const (
	// Disconnected means no transport connection exists. The external
	// control loop may attempt Connect again from here.
	Disconnected ConnState = iota

	// HandshakePending means the transport is open and the handshake
	// exchange is in progress.
	HandshakePending

	// Ready means the handshake settled and commands may be issued.
	Ready
)

// String returns a human-readable name for the connection state.
func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case HandshakePending:
		return "handshake-pending"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("ConnState(%d)", int(s))
	}
}

// DeviceState is the last-known state of the appliance. It is owned by the
// session and mutated only by successfully decoded acknowledgement or
// unsolicited-update frames. After a disconnect the values are retained as
// stale but best available.
type DeviceState struct {
	// VolumeDb is the master volume in dB, always a half-dB multiple
	// within [-95.0, 0.0].
	VolumeDb float64

	// Source is the active input source.
	Source protocol.Source

	// Dimmed is the DIM (mute) state.
	Dimmed bool
}

// defaultDeviceState mirrors the assumptions the vendor application makes
// before the device reports anything: full volume, AES1, DIM off.
func defaultDeviceState() DeviceState {
	return DeviceState{
		VolumeDb: 0.0,
		Source:   protocol.SourceAES1,
		Dimmed:   false,
	}
}

// String renders the state for the operator status surface.
func (d DeviceState) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "volume %.1f dB, source %s, DIM ", d.VolumeDb, d.Source)
	if d.Dimmed {
		b.WriteString("ON")
	} else {
		b.WriteString("OFF")
	}
	return b.String()
}

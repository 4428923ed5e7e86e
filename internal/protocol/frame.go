package protocol

import (
	"bytes"
	"fmt"
)

// Handshake and keep-alive byte sequences (identified from Wireshark captures
// of the vendor's own remote application).
var (
	// HandshakeStep1 is the first message sent by the client after connecting.
	HandshakeStep1 = []byte{0x00, 0x00, 0x00, 0x05}

	// HandshakeStep2 is the second handshake message. The device firmware
	// requires a short pause between the two writes.
	HandshakeStep2 = []byte{0x03}

	// Heartbeat is the recurring keep-alive packet, sent by both sides.
	Heartbeat = []byte{0x00, 0x00, 0x00, 0x05, 0x04}
)

// Outbound command prefixes. A complete command on the wire is the preamble
// followed by one of these prefixes plus a single trailing payload byte.
var (
	commandPreamble    = []byte{0x00, 0x00, 0x00, 0x0a}
	volumeCommandBytes = []byte{0x02, 0x03, 0x12, 0x00, 0x00}
	dimCommandBytes    = []byte{0x02, 0x05, 0x13, 0x00, 0x00}
	sourceCommandBytes = []byte{0x02, 0x03, 0x01, 0x00, 0x00}
)

// Inbound frame prefixes. All four carry a single value byte at the end of
// the read buffer.
var (
	volumeUpdatePrefix = []byte{0x00, 0x00, 0x00, 0x0b, 0x04, 0x03, 0x14, 0x01, 0x02, 0x00}
	volumeAckPrefix    = []byte{0x00, 0x00, 0x00, 0x0b, 0x04, 0x03, 0x12, 0x01, 0x02, 0x00}
	dimAckPrefix       = []byte{0x00, 0x00, 0x00, 0x0b, 0x04, 0x05, 0x13, 0x01, 0x02, 0x00}
	sourceAckPrefix    = []byte{0x00, 0x00, 0x00, 0x0b, 0x04, 0x03, 0x01, 0x01, 0x02, 0x00}
)

// FrameKind identifies one of the known DP564 frame shapes.
type FrameKind int

const (
	// FrameUnrecognized is any buffer that matches no known shape, or a
	// known prefix with no trailing value byte. Dropped by the session.
	FrameUnrecognized FrameKind = iota

	// FrameHeartbeat is the 5-byte keep-alive packet.
	FrameHeartbeat

	// FrameVolumeUpdate is an unsolicited volume change from the device
	// (e.g. someone turned the physical front-panel knob).
	FrameVolumeUpdate

	// FrameVolumeAck acknowledges a volume set command.
	FrameVolumeAck

	// FrameDimAck acknowledges a DIM state change command.
	FrameDimAck

	// FrameSourceAck acknowledges an input source change command.
	FrameSourceAck
)

// String returns a human-readable name for the frame kind.
func (k FrameKind) String() string {
	switch k {
	case FrameHeartbeat:
		return "Heartbeat"
	case FrameVolumeUpdate:
		return "VolumeUpdate"
	case FrameVolumeAck:
		return "VolumeAck"
	case FrameDimAck:
		return "DimAck"
	case FrameSourceAck:
		return "SourceAck"
	case FrameUnrecognized:
		return "Unrecognized"
	default:
		return fmt.Sprintf("FrameKind(%d)", int(k))
	}
}

// Frame is a classified inbound message. Value is meaningful only for the
// four ack/update kinds; heartbeats carry no payload.
type Frame struct {
	Kind  FrameKind
	Value byte
	Raw   []byte // Original read buffer for debugging
}

// String returns a debug representation of the frame.
func (f Frame) String() string {
	switch f.Kind {
	case FrameHeartbeat, FrameUnrecognized:
		return fmt.Sprintf("Frame{%s, len=%d}", f.Kind, len(f.Raw))
	default:
		return fmt.Sprintf("Frame{%s, value=0x%02x}", f.Kind, f.Value)
	}
}

// classifyTable pairs each inbound prefix with the kind it identifies.
// Ordered longest prefix first so the 10-byte ack shapes are tried before
// the 5-byte heartbeat.
var classifyTable = []struct {
	prefix []byte
	kind   FrameKind
}{
	{volumeUpdatePrefix, FrameVolumeUpdate},
	{volumeAckPrefix, FrameVolumeAck},
	{dimAckPrefix, FrameDimAck},
	{sourceAckPrefix, FrameSourceAck},
}

// Classify matches a received buffer against the known frame shapes.
//
// Ack and update frames require the buffer to be strictly longer than their
// prefix: the trailing value byte must exist. A buffer equal to or shorter
// than a known prefix is Unrecognized, never partially consumed. The value
// byte is taken from the end of the buffer, matching the vendor
// application's behavior when multiple frames arrive in one read.
//
// Only the first recognizable frame per read is classified; remaining bytes
// in the buffer are not re-scanned. The device's real framing/length field
// is not understood well enough to split reads safely.
func Classify(buf []byte) Frame {
	if bytes.Equal(buf, Heartbeat) {
		return Frame{Kind: FrameHeartbeat, Raw: buf}
	}

	for _, entry := range classifyTable {
		if len(buf) > len(entry.prefix) && bytes.HasPrefix(buf, entry.prefix) {
			return Frame{
				Kind:  entry.kind,
				Value: buf[len(buf)-1],
				Raw:   buf,
			}
		}
	}

	return Frame{Kind: FrameUnrecognized, Raw: buf}
}

// BuildVolumeCommand constructs the complete wire bytes to set the master
// volume: command preamble + volume command + level byte, concatenated into
// one buffer so the session can issue it as a single write.
func BuildVolumeCommand(db float64) ([]byte, error) {
	value, err := VolumeToByte(db)
	if err != nil {
		return nil, err
	}
	return buildCommand(volumeCommandBytes, value), nil
}

// BuildDimCommand constructs the wire bytes to set the DIM (mute) state.
func BuildDimCommand(on bool) []byte {
	var payload byte
	if on {
		payload = 0x01
	}
	return buildCommand(dimCommandBytes, payload)
}

// BuildSourceCommand constructs the wire bytes to select an input source.
func BuildSourceCommand(src Source) ([]byte, error) {
	if !src.Valid() {
		return nil, fmt.Errorf("invalid source %d", int(src))
	}
	return buildCommand(sourceCommandBytes, byte(src)), nil
}

// buildCommand concatenates preamble + command prefix + payload byte.
func buildCommand(cmd []byte, payload byte) []byte {
	out := make([]byte, 0, len(commandPreamble)+len(cmd)+1)
	out = append(out, commandPreamble...)
	out = append(out, cmd...)
	out = append(out, payload)
	return out
}

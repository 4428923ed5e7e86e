// Package protocol implements the DP564 remote-control binary protocol.
//
// This package handles construction and classification of the binary frames
// exchanged with a Dolby DP564 reference decoder on TCP port 4444. The
// protocol was identified from Wireshark captures of the vendor's own remote
// application; header semantics are only partially understood, so frames are
// recognized by fixed byte prefixes rather than a decoded length field.
//
// # Frame Shapes
//
// Outbound (client to device):
//   - Handshake step 1: 00 00 00 05
//   - Handshake step 2: 03
//   - Heartbeat:        00 00 00 05 04
//   - Command preamble: 00 00 00 0a
//   - Volume command:   02 03 12 00 00 + level byte
//   - DIM command:      02 05 13 00 00 + state byte
//   - Source command:   02 03 01 00 00 + source byte
//
// A complete command is the preamble immediately followed by the typed
// command. The Build* functions return both as one buffer so the session can
// transmit them in a single write with nothing interleaved.
//
// Inbound (device to client):
//   - Heartbeat:       00 00 00 05 04 (exact match)
//   - Volume update:   00 00 00 0b 04 03 14 01 02 00 + level byte
//   - Volume ack:      00 00 00 0b 04 03 12 01 02 00 + level byte
//   - DIM ack:         00 00 00 0b 04 05 13 01 02 00 + state byte
//   - Source ack:      00 00 00 0b 04 03 01 01 02 00 + source byte
//
// # Volume Encoding
//
// The level byte maps linearly to dB: level = 192 + 2*dB, covering -95.0 dB
// (2) to 0.0 dB (192) in half-dB steps. VolumeToByte and ByteToVolume are
// exact inverses over that range.
//
// # Known Limitation
//
// When the device packs several frames into one TCP segment, Classify acts
// on the first recognizable prefix and takes the value byte from the end of
// the buffer; the rest of the read is discarded. This mirrors the vendor
// application. Splitting reads correctly would require understanding the
// header's length field, which has not been reverse-engineered with
// confidence.
//
// All functions are stateless and safe for concurrent use.
package protocol

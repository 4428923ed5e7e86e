package session

import (
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/dp564ctl/internal/logging"
	"github.com/muurk/dp564ctl/internal/protocol"
)

// Default timing parameters. The handshake spacing and settle window are
// firmware requirements observed against real hardware, not tunables to
// optimize away.
const (
	// DefaultDialTimeout bounds the transport connect.
	DefaultDialTimeout = 5 * time.Second

	// DefaultHandshakeSpacing is the mandatory minimum pause between the
	// two handshake writes. Sending them back-to-back makes the firmware
	// drop the connection.
	DefaultHandshakeSpacing = 100 * time.Millisecond

	// DefaultSettleWindow is how long inbound bytes are drained and
	// discarded after the handshake before the session is Ready. The
	// device dumps its state tables here; their content is not relied
	// upon, only the port-level acceptance of the handshake.
	DefaultSettleWindow = 2 * time.Second

	// DefaultHeartbeatInterval is how often a keep-alive must be sent
	// once Ready. Matches the device's own heartbeat cadence.
	DefaultHeartbeatInterval = 10 * time.Second

	// DefaultDrainTimeout is the per-read deadline while draining inbound
	// bytes on a tick. Kept short so the tick-driven loop never stalls.
	DefaultDrainTimeout = 20 * time.Millisecond

	// readBufferSize matches the vendor application's receive buffer.
	readBufferSize = 1024
)

// DialFunc opens the transport connection. Injectable for tests.
type DialFunc func(network, address string, timeout time.Duration) (net.Conn, error)

// Options tune session timing. Zero values select the defaults above.
type Options struct {
	DialTimeout       time.Duration
	HandshakeSpacing  time.Duration
	SettleWindow      time.Duration
	HeartbeatInterval time.Duration
	DrainTimeout      time.Duration

	// Dial opens the transport connection (defaults to net.DialTimeout).
	Dial DialFunc
}

// withDefaults fills unset options.
func (o Options) withDefaults() Options {
	if o.DialTimeout == 0 {
		o.DialTimeout = DefaultDialTimeout
	}
	if o.HandshakeSpacing == 0 {
		o.HandshakeSpacing = DefaultHandshakeSpacing
	}
	if o.SettleWindow == 0 {
		o.SettleWindow = DefaultSettleWindow
	}
	if o.HeartbeatInterval == 0 {
		o.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if o.DrainTimeout == 0 {
		o.DrainTimeout = DefaultDrainTimeout
	}
	if o.Dial == nil {
		o.Dial = net.DialTimeout
	}
	return o
}

// Session owns the single persistent connection to a confirmed DP564 and
// drives the handshake, keep-alive emission, command encoding, and inbound
// frame dispatch.
//
// Everything runs on one cooperative control path: the owner calls Connect
// once, then Tick frequently enough to honor the heartbeat interval, and
// issues commands between ticks. There are no internal goroutines or
// timers, so a Session must not be shared across goroutines.
type Session struct {
	target string
	opts   Options

	conn           net.Conn
	state          ConnState
	device         DeviceState
	sinceHeartbeat time.Duration
	dropped        uint64

	// OnUpdate, when set, is invoked after every inbound frame that
	// changed the device state. Drives the operator status surface.
	OnUpdate func(kind protocol.FrameKind, state DeviceState)
}

// New creates a session for the given target ("host:port"). The session
// starts Disconnected; call Connect to establish the transport.
func New(target string, opts Options) *Session {
	return &Session{
		target: target,
		opts:   opts.withDefaults(),
		state:  Disconnected,
		device: defaultDeviceState(),
	}
}

// Target returns the device address the session connects to.
func (s *Session) Target() string { return s.target }

// ConnState returns the current connection state.
func (s *Session) ConnState() ConnState { return s.state }

// State returns the last-known device state. After a disconnect the values
// are stale but remain the best available.
func (s *Session) State() DeviceState { return s.device }

// Dropped returns how many inbound reads were discarded as unrecognized or
// too short to carry their value byte. Diagnostic only.
func (s *Session) Dropped() uint64 { return s.dropped }

// Connect opens the transport and performs the vendor handshake: two
// ordered writes separated by the mandatory spacing, then a settle window
// during which all inbound bytes are drained and discarded. The handshake
// acknowledgement content is deliberately not validated; only the device's
// acceptance of the bytes matters.
//
// On success the session is Ready with a fresh heartbeat timer. On any
// failure the session remains (or becomes) Disconnected and the error is
// recoverable: the caller may simply try again later.
func (s *Session) Connect() error {
	if s.state != Disconnected {
		return nil
	}

	logging.Info("Connecting to device", zap.String("target", s.target))

	conn, err := s.opts.Dial("tcp", s.target, s.opts.DialTimeout)
	if err != nil {
		return &TransportError{Op: "connect", Err: err}
	}
	s.conn = conn
	s.state = HandshakePending

	if err := s.writeRaw(protocol.HandshakeStep1); err != nil {
		s.teardown()
		return err
	}
	time.Sleep(s.opts.HandshakeSpacing)
	if err := s.writeRaw(protocol.HandshakeStep2); err != nil {
		s.teardown()
		return err
	}

	s.settle()

	s.state = Ready
	s.sinceHeartbeat = 0
	logging.Info("Session ready", zap.String("target", s.target))
	return nil
}

// settle drains and discards inbound bytes for the settle window. Read
// errors other than timeouts end the window early; whether the device went
// quiet or hung up is discovered by the first tick.
func (s *Session) settle() {
	deadline := time.Now().Add(s.opts.SettleWindow)
	buf := make([]byte, 4096)

	for time.Now().Before(deadline) {
		_ = s.conn.SetReadDeadline(deadline)
		n, err := s.conn.Read(buf)
		if n > 0 {
			logging.LogRawBytes("Handshake settle drain", buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// Tick advances the session by the elapsed time since the previous tick:
// emits a heartbeat when one is due, then drains and applies all available
// inbound frames. Outside Ready it is a no-op.
//
// Timing is passed in rather than read from a clock so tick behavior is
// testable without real delays.
func (s *Session) Tick(elapsed time.Duration) error {
	if s.state != Ready {
		return nil
	}

	s.sinceHeartbeat += elapsed
	if s.sinceHeartbeat > s.opts.HeartbeatInterval {
		if err := s.writeRaw(protocol.Heartbeat); err != nil {
			return s.disconnect(err)
		}
		s.sinceHeartbeat = 0
		logging.Debug("Heartbeat sent")
	}

	return s.drain()
}

// drain reads every available inbound buffer, classifying and applying each
// one. A read timeout means nothing more is pending and ends the drain.
func (s *Session) drain() error {
	buf := make([]byte, readBufferSize)

	for {
		_ = s.conn.SetReadDeadline(time.Now().Add(s.opts.DrainTimeout))
		n, err := s.conn.Read(buf)
		if n > 0 {
			s.apply(protocol.Classify(buf[:n]))
		}
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				return nil
			}
			return s.disconnect(err)
		}
	}
}

// apply folds one classified frame into the device state. Heartbeats are
// consumed silently; unrecognized buffers are counted and dropped.
func (s *Session) apply(frame protocol.Frame) {
	switch frame.Kind {
	case protocol.FrameHeartbeat:
		return

	case protocol.FrameVolumeAck, protocol.FrameVolumeUpdate:
		// The knob can only produce in-range values; clamping defends
		// against a malformed trailing byte.
		s.device.VolumeDb = protocol.ClampVolume(protocol.ByteToVolume(frame.Value))

	case protocol.FrameDimAck:
		s.device.Dimmed = frame.Value != 0

	case protocol.FrameSourceAck:
		src := protocol.Source(frame.Value)
		if !src.Valid() {
			s.dropped++
			logging.LogRawBytes("Source ack with undefined value", frame.Raw)
			return
		}
		s.device.Source = src

	case protocol.FrameUnrecognized:
		s.dropped++
		logging.LogRawBytes("Dropped unrecognized read", frame.Raw)
		return
	}

	logging.Debug("Applied inbound frame",
		zap.Stringer("kind", frame.Kind),
		zap.String("state", s.device.String()),
	)
	if s.OnUpdate != nil {
		s.OnUpdate(frame.Kind, s.device)
	}
}

// SetVolume sends the master volume command. The level is validated before
// encoding; out-of-range values are rejected with no transmission. The
// device state updates when the acknowledgement frame arrives, not here.
func (s *Session) SetVolume(db float64) error {
	if s.state != Ready {
		return ErrNotReady
	}
	cmd, err := protocol.BuildVolumeCommand(db)
	if err != nil {
		return &InvalidArgumentError{Err: err}
	}
	return s.writeCommand(cmd)
}

// SetDim sends the DIM (mute) state command.
func (s *Session) SetDim(on bool) error {
	if s.state != Ready {
		return ErrNotReady
	}
	return s.writeCommand(protocol.BuildDimCommand(on))
}

// ToggleDim flips the DIM state relative to the last-known value and
// returns the state that was requested.
func (s *Session) ToggleDim() (bool, error) {
	target := !s.device.Dimmed
	return target, s.SetDim(target)
}

// SetSource sends the input source select command. Unknown sources are
// rejected with no transmission.
func (s *Session) SetSource(src protocol.Source) error {
	if s.state != Ready {
		return ErrNotReady
	}
	cmd, err := protocol.BuildSourceCommand(src)
	if err != nil {
		return &InvalidArgumentError{Err: err}
	}
	return s.writeCommand(cmd)
}

// writeCommand transmits a preamble+command buffer as one write so nothing
// can interleave between the two parts on the shared connection.
func (s *Session) writeCommand(cmd []byte) error {
	logging.LogRawBytes("Sending command", cmd)
	if err := s.writeRaw(cmd); err != nil {
		return s.disconnect(err)
	}
	return nil
}

// writeRaw writes a complete buffer to the transport.
func (s *Session) writeRaw(b []byte) error {
	if _, err := s.conn.Write(b); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

// disconnect records an unexpected transport failure: the connection is
// closed, the state returns to Disconnected, and the device state is kept
// as stale. The returned error wraps ErrUnexpectedDisconnect when the
// session had been Ready.
func (s *Session) disconnect(cause error) error {
	wasReady := s.state == Ready
	s.teardown()
	logging.Warn("Connection lost", zap.Error(cause))
	if wasReady {
		return ErrUnexpectedDisconnect
	}
	return cause
}

// teardown releases the transport handle. Safe to call repeatedly.
func (s *Session) teardown() {
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.state = Disconnected
}

// Close releases the transport idempotently. The device state survives so
// a status query after shutdown still shows the last-known values.
func (s *Session) Close() error {
	s.teardown()
	return nil
}

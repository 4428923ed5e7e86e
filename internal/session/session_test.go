package session

import (
	"bytes"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/muurk/dp564ctl/internal/protocol"
)

// timeoutError satisfies net.Error with Timeout() == true, standing in for
// a read deadline expiry.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// fakeConn is a scriptable net.Conn: queued inbound buffers are returned
// one per Read, then reads time out (or fail with readErr if set). All
// writes are recorded.
type fakeConn struct {
	reads     [][]byte
	readErr   error // returned once the queue is empty, instead of a timeout
	writes    [][]byte
	writeErr  error
	closed    bool
	closes    int
	deadlines int
}

func (c *fakeConn) Read(b []byte) (int, error) {
	if len(c.reads) > 0 {
		buf := c.reads[0]
		c.reads = c.reads[1:]
		n := copy(b, buf)
		return n, nil
	}
	if c.readErr != nil {
		return 0, c.readErr
	}
	return 0, timeoutError{}
}

func (c *fakeConn) Write(b []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	buf := make([]byte, len(b))
	copy(buf, b)
	c.writes = append(c.writes, buf)
	return len(b), nil
}

func (c *fakeConn) Close() error                     { c.closed = true; c.closes++; return nil }
func (c *fakeConn) LocalAddr() net.Addr              { return nil }
func (c *fakeConn) RemoteAddr() net.Addr             { return nil }
func (c *fakeConn) SetDeadline(time.Time) error      { return nil }
func (c *fakeConn) SetReadDeadline(time.Time) error  { c.deadlines++; return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

// testOptions returns options with all real delays collapsed for tests.
func testOptions(conn net.Conn, dialErr error) Options {
	return Options{
		HandshakeSpacing: time.Millisecond,
		SettleWindow:     time.Millisecond,
		DrainTimeout:     time.Millisecond,
		Dial: func(network, address string, timeout time.Duration) (net.Conn, error) {
			if dialErr != nil {
				return nil, dialErr
			}
			return conn, nil
		},
	}
}

// readySession connects a session over the given fake conn and fails the
// test if the handshake does not complete.
func readySession(t *testing.T, conn *fakeConn) *Session {
	t.Helper()
	s := New("192.168.0.11:4444", testOptions(conn, nil))
	if err := s.Connect(); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if s.ConnState() != Ready {
		t.Fatalf("state after Connect = %s, want ready", s.ConnState())
	}
	return s
}

func TestConnectHandshake(t *testing.T) {
	conn := &fakeConn{
		// Device dumps initial state during the settle window; it must
		// be drained and discarded, not applied.
		reads: [][]byte{
			{0x00, 0x00, 0x00, 0x0b, 0x04, 0x03, 0x12, 0x01, 0x02, 0x00, 0x02},
			{0x00, 0x00, 0x00, 0x05, 0x04},
		},
	}
	s := readySession(t, conn)

	if len(conn.writes) != 2 {
		t.Fatalf("handshake wrote %d buffers, want 2", len(conn.writes))
	}
	if !bytes.Equal(conn.writes[0], protocol.HandshakeStep1) {
		t.Errorf("first write = % x, want handshake step 1", conn.writes[0])
	}
	if !bytes.Equal(conn.writes[1], protocol.HandshakeStep2) {
		t.Errorf("second write = % x, want handshake step 2", conn.writes[1])
	}

	// The settle drain saw a -95 dB volume ack; it must not have been
	// applied to the device state.
	if got := s.State().VolumeDb; got != 0.0 {
		t.Errorf("volume after settle = %.1f, want 0.0 (settle bytes are discarded)", got)
	}
}

func TestConnectDialFailure(t *testing.T) {
	s := New("192.168.0.11:4444", testOptions(nil, errors.New("no route to host")))
	err := s.Connect()
	if err == nil {
		t.Fatal("Connect() expected error")
	}
	if !IsTransportError(err) {
		t.Errorf("Connect() error = %v, want TransportError", err)
	}
	if s.ConnState() != Disconnected {
		t.Errorf("state after failed connect = %s, want disconnected", s.ConnState())
	}
}

func TestTickHeartbeat(t *testing.T) {
	conn := &fakeConn{}
	s := readySession(t, conn)
	handshakeWrites := len(conn.writes)

	// Exactly at the interval: not yet overdue.
	if err := s.Tick(10 * time.Second); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}
	if len(conn.writes) != handshakeWrites {
		t.Fatalf("heartbeat sent at exactly the interval, want none")
	}

	// Past the interval: exactly one heartbeat.
	if err := s.Tick(time.Millisecond); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}
	if len(conn.writes) != handshakeWrites+1 {
		t.Fatalf("wrote %d buffers, want one heartbeat", len(conn.writes)-handshakeWrites)
	}
	if !bytes.Equal(conn.writes[handshakeWrites], protocol.Heartbeat) {
		t.Errorf("heartbeat bytes = % x, want % x", conn.writes[handshakeWrites], protocol.Heartbeat)
	}

	// A long gap still produces exactly one heartbeat on the next tick.
	if err := s.Tick(35 * time.Second); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}
	if len(conn.writes) != handshakeWrites+2 {
		t.Errorf("long gap produced %d heartbeats, want 1", len(conn.writes)-handshakeWrites-1)
	}
}

func TestTickAppliesInboundFrames(t *testing.T) {
	tests := []struct {
		name  string
		reads [][]byte
		check func(t *testing.T, s *Session)
	}{
		{
			name:  "volume ack minus ten dB",
			reads: [][]byte{{0x00, 0x00, 0x00, 0x0b, 0x04, 0x03, 0x12, 0x01, 0x02, 0x00, 0xac}},
			check: func(t *testing.T, s *Session) {
				if got := s.State().VolumeDb; got != -10.0 {
					t.Errorf("volume = %.1f, want -10.0", got)
				}
			},
		},
		{
			name:  "unsolicited volume update from front panel",
			reads: [][]byte{{0x00, 0x00, 0x00, 0x0b, 0x04, 0x03, 0x14, 0x01, 0x02, 0x00, 0xbf}},
			check: func(t *testing.T, s *Session) {
				if got := s.State().VolumeDb; got != -0.5 {
					t.Errorf("volume = %.1f, want -0.5", got)
				}
			},
		},
		{
			name:  "dim ack on",
			reads: [][]byte{{0x00, 0x00, 0x00, 0x0b, 0x04, 0x05, 0x13, 0x01, 0x02, 0x00, 0x01}},
			check: func(t *testing.T, s *Session) {
				if !s.State().Dimmed {
					t.Error("dimmed = false, want true")
				}
			},
		},
		{
			name:  "source ack optical",
			reads: [][]byte{{0x00, 0x00, 0x00, 0x0b, 0x04, 0x03, 0x01, 0x01, 0x02, 0x00, 0x02}},
			check: func(t *testing.T, s *Session) {
				if got := s.State().Source; got != protocol.SourceOptical {
					t.Errorf("source = %s, want optical", got)
				}
			},
		},
		{
			name:  "source ack with undefined value leaves state unchanged",
			reads: [][]byte{{0x00, 0x00, 0x00, 0x0b, 0x04, 0x03, 0x01, 0x01, 0x02, 0x00, 0x09}},
			check: func(t *testing.T, s *Session) {
				if got := s.State().Source; got != protocol.SourceAES1 {
					t.Errorf("source = %s, want aes1 (unchanged)", got)
				}
				if s.Dropped() != 1 {
					t.Errorf("dropped = %d, want 1", s.Dropped())
				}
			},
		},
		{
			name:  "heartbeat consumed silently",
			reads: [][]byte{{0x00, 0x00, 0x00, 0x05, 0x04}},
			check: func(t *testing.T, s *Session) {
				if s.Dropped() != 0 {
					t.Errorf("dropped = %d, want 0", s.Dropped())
				}
			},
		},
		{
			name:  "unrecognized bytes counted and dropped",
			reads: [][]byte{{0xff, 0xfe, 0xfd}},
			check: func(t *testing.T, s *Session) {
				if s.Dropped() != 1 {
					t.Errorf("dropped = %d, want 1", s.Dropped())
				}
			},
		},
		{
			name: "several reads applied in order",
			reads: [][]byte{
				{0x00, 0x00, 0x00, 0x0b, 0x04, 0x03, 0x12, 0x01, 0x02, 0x00, 0xac},
				{0x00, 0x00, 0x00, 0x0b, 0x04, 0x05, 0x13, 0x01, 0x02, 0x00, 0x01},
				{0x00, 0x00, 0x00, 0x0b, 0x04, 0x03, 0x12, 0x01, 0x02, 0x00, 0xc0},
			},
			check: func(t *testing.T, s *Session) {
				if got := s.State().VolumeDb; got != 0.0 {
					t.Errorf("volume = %.1f, want 0.0 (last ack wins)", got)
				}
				if !s.State().Dimmed {
					t.Error("dimmed = false, want true")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &fakeConn{}
			s := readySession(t, conn)
			conn.reads = tt.reads

			if err := s.Tick(time.Millisecond); err != nil {
				t.Fatalf("Tick() error: %v", err)
			}
			tt.check(t, s)
		})
	}
}

func TestOnUpdateCallback(t *testing.T) {
	conn := &fakeConn{}
	s := readySession(t, conn)

	var gotKind protocol.FrameKind
	var gotState DeviceState
	s.OnUpdate = func(kind protocol.FrameKind, state DeviceState) {
		gotKind = kind
		gotState = state
	}

	conn.reads = [][]byte{{0x00, 0x00, 0x00, 0x0b, 0x04, 0x03, 0x12, 0x01, 0x02, 0x00, 0xac}}
	if err := s.Tick(time.Millisecond); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}

	if gotKind != protocol.FrameVolumeAck {
		t.Errorf("callback kind = %s, want VolumeAck", gotKind)
	}
	if gotState.VolumeDb != -10.0 {
		t.Errorf("callback state volume = %.1f, want -10.0", gotState.VolumeDb)
	}
}

func TestSetVolumeRejectsOutOfRange(t *testing.T) {
	conn := &fakeConn{}
	s := readySession(t, conn)
	writesBefore := len(conn.writes)

	err := s.SetVolume(5.0)
	if err == nil {
		t.Fatal("SetVolume(5.0) expected error")
	}
	if !IsInvalidArgument(err) {
		t.Errorf("SetVolume(5.0) error = %v, want InvalidArgumentError", err)
	}
	if len(conn.writes) != writesBefore {
		t.Errorf("rejected command produced %d bytes on the transport, want none",
			len(conn.writes)-writesBefore)
	}
}

func TestCommandsRejectedOutsideReady(t *testing.T) {
	s := New("192.168.0.11:4444", testOptions(&fakeConn{}, nil))

	if err := s.SetVolume(-10.0); !errors.Is(err, ErrNotReady) {
		t.Errorf("SetVolume before connect = %v, want ErrNotReady", err)
	}
	if err := s.SetDim(true); !errors.Is(err, ErrNotReady) {
		t.Errorf("SetDim before connect = %v, want ErrNotReady", err)
	}
	if err := s.SetSource(protocol.SourceAES2); !errors.Is(err, ErrNotReady) {
		t.Errorf("SetSource before connect = %v, want ErrNotReady", err)
	}
}

func TestSetVolumeWritesSingleBuffer(t *testing.T) {
	conn := &fakeConn{}
	s := readySession(t, conn)
	writesBefore := len(conn.writes)

	if err := s.SetVolume(-10.0); err != nil {
		t.Fatalf("SetVolume() error: %v", err)
	}

	if got := len(conn.writes) - writesBefore; got != 1 {
		t.Fatalf("SetVolume produced %d writes, want 1 (preamble and command must not be split)", got)
	}
	want := []byte{0x00, 0x00, 0x00, 0x0a, 0x02, 0x03, 0x12, 0x00, 0x00, 0xac}
	if !bytes.Equal(conn.writes[writesBefore], want) {
		t.Errorf("SetVolume wrote % x, want % x", conn.writes[writesBefore], want)
	}
}

func TestToggleDim(t *testing.T) {
	conn := &fakeConn{}
	s := readySession(t, conn)

	requested, err := s.ToggleDim()
	if err != nil {
		t.Fatalf("ToggleDim() error: %v", err)
	}
	if !requested {
		t.Error("ToggleDim() from default off should request on")
	}

	last := conn.writes[len(conn.writes)-1]
	want := []byte{0x00, 0x00, 0x00, 0x0a, 0x02, 0x05, 0x13, 0x00, 0x00, 0x01}
	if !bytes.Equal(last, want) {
		t.Errorf("ToggleDim wrote % x, want % x", last, want)
	}
}

func TestDisconnectOnReadFailure(t *testing.T) {
	conn := &fakeConn{}
	s := readySession(t, conn)

	// Apply a state update, then kill the connection.
	conn.reads = [][]byte{{0x00, 0x00, 0x00, 0x0b, 0x04, 0x03, 0x12, 0x01, 0x02, 0x00, 0xac}}
	conn.readErr = io.EOF

	err := s.Tick(time.Millisecond)
	if !errors.Is(err, ErrUnexpectedDisconnect) {
		t.Fatalf("Tick() error = %v, want ErrUnexpectedDisconnect", err)
	}
	if s.ConnState() != Disconnected {
		t.Errorf("state = %s, want disconnected", s.ConnState())
	}
	if !conn.closed {
		t.Error("transport handle not released on disconnect")
	}

	// Last-known state is retained as stale.
	if got := s.State().VolumeDb; got != -10.0 {
		t.Errorf("volume after disconnect = %.1f, want -10.0 retained", got)
	}

	// Further ticks are no-ops, not panics.
	if err := s.Tick(time.Second); err != nil {
		t.Errorf("Tick() while disconnected = %v, want nil", err)
	}
}

func TestDisconnectOnWriteFailure(t *testing.T) {
	conn := &fakeConn{}
	s := readySession(t, conn)
	conn.writeErr = errors.New("broken pipe")

	err := s.SetDim(true)
	if !errors.Is(err, ErrUnexpectedDisconnect) {
		t.Fatalf("SetDim() error = %v, want ErrUnexpectedDisconnect", err)
	}
	if s.ConnState() != Disconnected {
		t.Errorf("state = %s, want disconnected", s.ConnState())
	}
}

func TestCloseIdempotent(t *testing.T) {
	conn := &fakeConn{}
	s := readySession(t, conn)

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
	if conn.closes != 1 {
		t.Errorf("transport closed %d times, want 1", conn.closes)
	}
	if s.ConnState() != Disconnected {
		t.Errorf("state after close = %s, want disconnected", s.ConnState())
	}
}

func TestDeviceStateString(t *testing.T) {
	s := DeviceState{VolumeDb: -22.5, Source: protocol.SourceOptical, Dimmed: true}
	want := "volume -22.5 dB, source optical, DIM ON"
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

package discovery

import (
	"fmt"
	"net"
	"net/netip"
	"time"
)

// Result is a confirmed target device: the address that accepted the probe
// connection and the hardware address that matched a vendor rule. Produced
// at most once per sweep and immutable afterwards.
type Result struct {
	// Addr is the routable IPv4 address of the device.
	Addr netip.Addr

	// Port is the TCP port the probe connected to.
	Port int

	// Hardware is the 6-octet hardware address confirmed by the vendor
	// classifier.
	Hardware net.HardwareAddr

	// DiscoveredAt is when the sweep confirmed the device.
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the result.
func (r *Result) String() string {
	return fmt.Sprintf("DP564 at %s:%d (%s)", r.Addr, r.Port, r.Hardware)
}

// HostPort returns the address in host:port form for dialing.
func (r *Result) HostPort() string {
	return net.JoinHostPort(r.Addr.String(), fmt.Sprintf("%d", r.Port))
}

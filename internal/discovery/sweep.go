package discovery

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/dp564ctl/internal/logging"
	"github.com/muurk/dp564ctl/internal/oui"
)

const (
	// DefaultPort is the DP564 remote-control TCP port. The probe targets
	// this port; a device that accepts the connection is a candidate.
	DefaultPort = 4444

	// DefaultProbeTimeout bounds each candidate's connection attempt. The
	// sweep visits every host on the subnet, so this stays short.
	DefaultProbeTimeout = 250 * time.Millisecond

	// DefaultPrefixLen is the subnet prefix swept when the local interface
	// does not supply one.
	DefaultPrefixLen = 24
)

// DialFunc opens a probe connection. Injectable so sweeps are testable
// without a real network.
type DialFunc func(network, address string, timeout time.Duration) (net.Conn, error)

// Sweeper finds a DP564 on the local subnet without prior knowledge of its
// address. It probes each candidate host's control port and confirms
// candidates by their hardware address vendor prefix.
type Sweeper struct {
	// Port is the TCP port probed on each candidate.
	Port int

	// ProbeTimeout bounds each individual connection attempt.
	ProbeTimeout time.Duration

	// Dial opens probe connections (defaults to net.DialTimeout).
	Dial DialFunc

	// Neighbors resolves candidate IPs to hardware addresses.
	Neighbors NeighborTable
}

// NewSweeper creates a sweeper with default probe settings, resolving
// hardware addresses through the given neighbor table.
func NewSweeper(neighbors NeighborTable) *Sweeper {
	return &Sweeper{
		Port:         DefaultPort,
		ProbeTimeout: DefaultProbeTimeout,
		Dial:         net.DialTimeout,
		Neighbors:    neighbors,
	}
}

// Sweep probes every host address in the local subnet in ascending order,
// skipping the local address itself, until one candidate both accepts the
// probe connection and carries a vendor hardware address.
//
// The neighbor lookup runs immediately after each successful connect: the
// probe itself is what populates the link layer's neighbor cache, so the
// entry is only dependably present while that connection is fresh. A
// candidate that times out, refuses, or cannot be resolved is skipped;
// per-candidate failures never abort the sweep.
//
// Returns ErrNotFound after exhausting all candidates.
func (s *Sweeper) Sweep(ctx context.Context, local netip.Addr, prefixLen int) (*Result, error) {
	candidates, err := subnetHosts(local, prefixLen)
	if err != nil {
		return nil, err
	}

	logging.Info("Starting discovery sweep",
		zap.String("local", local.String()),
		zap.Int("prefix_len", prefixLen),
		zap.Int("candidates", len(candidates)),
		zap.Int("port", s.Port),
	)

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := s.probe(candidate)
		if result != nil {
			logging.Info("Device confirmed",
				zap.String("addr", result.Addr.String()),
				zap.String("hardware", result.Hardware.String()),
			)
			return result, nil
		}
	}

	logging.Info("Sweep exhausted with no match")
	return nil, ErrNotFound
}

// probe tests a single candidate. Returns a Result only when the candidate
// accepts the connection and its hardware address matches a vendor rule.
func (s *Sweeper) probe(candidate netip.Addr) *Result {
	target := net.JoinHostPort(candidate.String(), fmt.Sprintf("%d", s.Port))

	conn, err := s.Dial("tcp", target, s.ProbeTimeout)
	if err != nil {
		// Closed port or silent host. Normal for nearly every candidate.
		return nil
	}
	defer func() { _ = conn.Close() }()

	// Resolve while the neighbor cache entry from this connection is warm.
	hw, ok := s.Neighbors.Lookup(candidate)
	if !ok {
		logging.Debug("Port open but neighbor lookup missed",
			zap.String("addr", candidate.String()))
		return nil
	}

	if !oui.Match(hw) {
		logging.Debug("Port open but hardware address is not vendor",
			zap.String("addr", candidate.String()),
			zap.String("hardware", hw.String()))
		return nil
	}

	return &Result{
		Addr:         candidate,
		Port:         s.Port,
		Hardware:     hw,
		DiscoveredAt: time.Now(),
	}
}

// subnetHosts enumerates all host addresses in local's subnet in ascending
// numeric order, excluding the network address, the broadcast address, and
// local itself.
func subnetHosts(local netip.Addr, prefixLen int) ([]netip.Addr, error) {
	if !local.Is4() {
		return nil, fmt.Errorf("local address %s is not IPv4", local)
	}
	if prefixLen < 8 || prefixLen > 30 {
		return nil, fmt.Errorf("prefix length %d out of supported range [8, 30]", prefixLen)
	}

	prefix, err := local.Prefix(prefixLen)
	if err != nil {
		return nil, err
	}

	network := prefix.Addr()
	hostBits := 32 - prefixLen
	hostCount := (1 << hostBits) - 2 // minus network and broadcast

	hosts := make([]netip.Addr, 0, hostCount)
	addr := network.Next()
	for i := 0; i < hostCount; i++ {
		if addr != local {
			hosts = append(hosts, addr)
		}
		addr = addr.Next()
	}
	return hosts, nil
}

// LocalAddress finds a usable local IPv4 address and its prefix length by
// walking the machine's interfaces. Loopback, down, and link-local
// interfaces are skipped; the first global unicast IPv4 wins.
func LocalAddress() (netip.Addr, int, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return netip.Addr{}, 0, fmt.Errorf("failed to list interfaces: %w", err)
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipNet.IP.To4()
			if ip4 == nil {
				continue
			}
			addr, ok := netip.AddrFromSlice(ip4)
			if !ok || addr.IsLinkLocalUnicast() || addr.IsLoopback() {
				continue
			}
			prefixLen, _ := ipNet.Mask.Size()
			return addr, prefixLen, nil
		}
	}

	return netip.Addr{}, 0, ErrNoLocalAddress
}

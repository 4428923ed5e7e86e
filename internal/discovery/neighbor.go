package discovery

import (
	"net"
	"net/netip"
	"os"
	"strings"
)

// NeighborTable resolves an IPv4 address to a link-layer hardware address.
// The only freshness guarantee is immediately after a connection attempt to
// that address, which is why the sweep queries right after the probe dial.
type NeighborTable interface {
	// Lookup returns the hardware address for the given IP, or false if
	// the neighbor cache has no complete entry for it.
	Lookup(addr netip.Addr) (net.HardwareAddr, bool)
}

// procArpPath is the kernel's ARP cache table on Linux.
const procArpPath = "/proc/net/arp"

// systemTable reads the OS neighbor cache. On Linux this is /proc/net/arp,
// re-read on every lookup so entries populated by the probe connection are
// visible without any refresh protocol.
type systemTable struct {
	path string
}

// NewSystemTable returns a NeighborTable backed by the operating system's
// ARP cache.
func NewSystemTable() NeighborTable {
	return &systemTable{path: procArpPath}
}

func (t *systemTable) Lookup(addr netip.Addr) (net.HardwareAddr, bool) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return nil, false
	}
	return lookupArpTable(string(data), addr)
}

// lookupArpTable scans /proc/net/arp content for a complete entry matching
// the address. Table format:
//
//	IP address  HW type  Flags  HW address         Mask  Device
//	192.168.0.11  0x1    0x2    00:d0:46:aa:bb:cc  *     wlan0
//
// Flags 0x0 marks an incomplete entry (probe sent, no reply yet); those and
// all-zero hardware addresses are treated as misses.
func lookupArpTable(content string, addr netip.Addr) (net.HardwareAddr, bool) {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if i == 0 {
			continue // header row
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}

		entryIP, err := netip.ParseAddr(fields[0])
		if err != nil || entryIP != addr {
			continue
		}

		if fields[2] == "0x0" {
			return nil, false
		}

		hw, err := net.ParseMAC(fields[3])
		if err != nil {
			return nil, false
		}
		if isZeroHardwareAddr(hw) {
			return nil, false
		}
		return hw, true
	}
	return nil, false
}

func isZeroHardwareAddr(hw net.HardwareAddr) bool {
	for _, b := range hw {
		if b != 0 {
			return false
		}
	}
	return true
}

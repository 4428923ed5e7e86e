package oui

import (
	"net"
	"testing"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		addr net.HardwareAddr
		want bool
	}{
		{
			name: "exact OUI match",
			addr: net.HardwareAddr{0x00, 0xd0, 0x46, 0x12, 0x34, 0x56},
			want: true,
		},
		{
			name: "second exact OUI",
			addr: net.HardwareAddr{0x00, 0x0f, 0x44, 0xff, 0xff, 0xff},
			want: true,
		},
		{
			name: "exact OUI, wrong third octet",
			addr: net.HardwareAddr{0x00, 0xd0, 0x47, 0x12, 0x34, 0x56},
			want: false,
		},
		{
			name: "five octet rule, nibble in range",
			addr: net.HardwareAddr{0x00, 0x10, 0xfa, 0x5e, 0x3a, 0x01},
			want: true,
		},
		{
			name: "five octet rule, nibble out of range",
			addr: net.HardwareAddr{0x00, 0x10, 0xfa, 0x5e, 0x4a, 0x01},
			want: false,
		},
		{
			name: "four octet nibble rule, low nibble varies",
			addr: net.HardwareAddr{0x08, 0x00, 0x46, 0xaf, 0x00, 0x00},
			want: true,
		},
		{
			name: "four octet nibble rule, upper nibble differs",
			addr: net.HardwareAddr{0x08, 0x00, 0x46, 0xbf, 0x00, 0x00},
			want: false,
		},
		{
			name: "unrelated vendor",
			addr: net.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff},
			want: false,
		},
		{
			name: "short address never matches",
			addr: net.HardwareAddr{0x00, 0xd0, 0x46},
			want: false,
		},
		{
			name: "eui-64 address never matches",
			addr: net.HardwareAddr{0x00, 0xd0, 0x46, 0x12, 0x34, 0x56, 0x78, 0x9a},
			want: false,
		},
		{
			name: "nil address",
			addr: nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.addr); got != tt.want {
				t.Errorf("Match(%s) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}

// TestMatchSingleBitDifference flips each unmasked bit of a matching address
// and verifies the classifier rejects the result.
func TestMatchSingleBitDifference(t *testing.T) {
	base := net.HardwareAddr{0x00, 0xd0, 0x46, 0x12, 0x34, 0x56}
	if !Match(base) {
		t.Fatalf("base address %s should match", base)
	}

	// Only the first three octets are constrained by this rule.
	for octet := 0; octet < 3; octet++ {
		for bit := 0; bit < 8; bit++ {
			addr := make(net.HardwareAddr, len(base))
			copy(addr, base)
			addr[octet] ^= 1 << bit
			if Match(addr) {
				t.Errorf("Match(%s) = true after flipping octet %d bit %d", addr, octet, bit)
			}
		}
	}
}

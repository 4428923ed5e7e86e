package oui

import "net"

// PrefixRule matches the leading octets of a hardware address. Each octet is
// compared under its mask, so a rule can pin a full octet (mask 0xff) or
// only its upper nibble (mask 0xf0). Rules cover 3 to 5 leading octets.
type PrefixRule struct {
	// Label is a human-readable note on where the allocation comes from.
	Label string

	// Octets are (value, mask) pairs applied to the address in order.
	Octets []MaskedOctet
}

// MaskedOctet is a single octet comparison under a mask.
type MaskedOctet struct {
	Value byte
	Mask  byte
}

// vendorRules are the hardware address allocations observed on DP564 units.
// The exact OUIs cover the common production runs; the masked entries cover
// ranges where only the upper nibble of a later octet is fixed. The rules do
// not overlap, so evaluation order is immaterial.
var vendorRules = []PrefixRule{
	{
		Label: "Dolby Laboratories OUI",
		Octets: []MaskedOctet{
			{0x00, 0xff}, {0xd0, 0xff}, {0x46, 0xff},
		},
	},
	{
		Label: "Dolby Laboratories OUI (later allocation)",
		Octets: []MaskedOctet{
			{0x00, 0xff}, {0x0f, 0xff}, {0x44, 0xff},
		},
	},
	{
		Label: "DP564 production range, fourth octet pinned",
		Octets: []MaskedOctet{
			{0x00, 0xff}, {0x10, 0xff}, {0xfa, 0xff}, {0x5e, 0xff}, {0x30, 0xf0},
		},
	},
	{
		Label: "DP564 early units, upper nibble of fourth octet",
		Octets: []MaskedOctet{
			{0x08, 0xff}, {0x00, 0xff}, {0x46, 0xff}, {0xa0, 0xf0},
		},
	},
}

// Match reports whether a 6-octet hardware address belongs to the target
// vendor. Pure predicate: no state, no I/O, never fails. Addresses that are
// not 6 octets long never match.
func Match(addr net.HardwareAddr) bool {
	if len(addr) != 6 {
		return false
	}
	for _, rule := range vendorRules {
		if rule.matches(addr) {
			return true
		}
	}
	return false
}

// matches applies the rule's masked octets to the address front.
func (r PrefixRule) matches(addr net.HardwareAddr) bool {
	if len(r.Octets) > len(addr) {
		return false
	}
	for i, o := range r.Octets {
		if addr[i]&o.Mask != o.Value&o.Mask {
			return false
		}
	}
	return true
}

// Rules returns the configured vendor rules, for display in diagnostics.
func Rules() []PrefixRule {
	return vendorRules
}

// Package oui decides whether a hardware address belongs to the target
// appliance vendor.
//
// Discovery cannot rely on the DP564 announcing itself: the device runs no
// mDNS or SSDP responder. What it does have is a vendor-assigned OUI
// (Organizationally Unique Identifier) in its MAC address, so the discovery
// sweep probes candidates and checks the resolved hardware address against a
// small static rule set.
//
// Rules come in two shapes: exact leading octets and octets matched only in
// their upper nibble. The nibble-masked entries cover production ranges
// where the low nibble varies per batch. Rules are configuration data,
// immutable for the process lifetime, and non-overlapping.
package oui

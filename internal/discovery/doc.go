// Package discovery locates a DP564 on the local subnet with no prior
// knowledge of its address.
//
// The device advertises nothing, so discovery works from two observable
// facts: the remote-control service listens on TCP port 4444, and the
// device's MAC address carries a vendor-assigned OUI. The sweep combines
// them:
//
//  1. Enumerate every host address in the local subnet (default /24),
//     ascending, skipping the local address.
//  2. Attempt a short-timeout TCP connection to port 4444.
//  3. On acceptance, immediately look the candidate up in the OS neighbor
//     (ARP) table. The probe connection itself is what populates the
//     cache; the lookup must happen while the entry is warm.
//  4. Match the hardware address against the vendor prefix rules
//     (package oui). First confirmed candidate ends the sweep.
//
// A sweep that exhausts all candidates returns ErrNotFound, which is a
// normal outcome. Individual candidate failures (timeout, refused
// connection, neighbor cache miss) advance the sweep, never abort it.
//
// # Usage Example
//
//	local, prefixLen, err := discovery.LocalAddress()
//	if err != nil {
//	    return err
//	}
//	sweeper := discovery.NewSweeper(discovery.NewSystemTable())
//	result, err := sweeper.Sweep(ctx, local, prefixLen)
//
// The dial function and neighbor table are injectable, so the sweep logic
// is testable against fakes without network hardware.
package discovery

package config

import "time"

// Registry represents the entire user configuration file.
// This stores discovered-device metadata and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by device MAC address
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents cached metadata for a single DP564.
// This is keyed by the device's MAC address in the Registry. Caching the last
// known address lets the CLI reconnect directly without sweeping the subnet.
type Device struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-friendly name
	LastIP   string    `yaml:"last_ip,omitempty"`   // Last known IP address
	LastPort int       `yaml:"last_port,omitempty"` // Control port (normally 4444)
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery/connection time
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AutoDiscover   bool `yaml:"auto_discover"`    // Sweep the subnet when no cached address works
	ProbeTimeoutMs int  `yaml:"probe_timeout_ms"` // Per-host TCP probe timeout in milliseconds
	SubnetPrefix   int  `yaml:"subnet_prefix"`    // Prefix length for the discovery sweep
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			AutoDiscover:   true,
			ProbeTimeoutMs: 250,
			SubnetPrefix:   24,
		},
	}
}

// GetDevice retrieves device metadata by MAC address.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(mac string) *Device {
	return r.Devices[mac]
}

// EnsureDevice ensures a device entry exists in the registry.
// If the device doesn't exist, creates a new entry with default values.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(mac string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[mac]; exists {
		return device
	}

	device := &Device{}
	r.Devices[mac] = device
	return device
}

// UpdateDeviceLastSeen updates the last seen timestamp and address for a
// device. Called after every successful discovery or connection so the cache
// tracks the DHCP lease moving around.
func (r *Registry) UpdateDeviceLastSeen(mac, ip string, port int) {
	device := r.EnsureDevice(mac)
	device.LastSeen = time.Now()
	device.LastIP = ip
	device.LastPort = port
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(mac, nickname string) {
	device := r.EnsureDevice(mac)
	device.Nickname = nickname
}

// MostRecentDevice returns the MAC and metadata of the device with the newest
// LastSeen timestamp, or "" and nil when the registry has no usable entry.
// With a single monitor on the network this is the entry to reconnect to.
func (r *Registry) MostRecentDevice() (string, *Device) {
	var bestMac string
	var best *Device
	for mac, device := range r.Devices {
		if device.LastIP == "" {
			continue
		}
		if best == nil || device.LastSeen.After(best.LastSeen) {
			bestMac = mac
			best = device
		}
	}
	return bestMac, best
}

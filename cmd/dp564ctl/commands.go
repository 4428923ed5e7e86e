package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/dp564ctl/internal/config"
	"github.com/muurk/dp564ctl/internal/discovery"
	"github.com/muurk/dp564ctl/internal/logging"
	"github.com/muurk/dp564ctl/internal/session"
	"github.com/muurk/dp564ctl/internal/tui"
)

// Command flags
var (
	deviceIP     string
	devicePort   int
	probeTimeout int
	noCache      bool
	plainMode    bool
)

func init() {
	// Common flags for device commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&deviceIP, "device", "", "Device IP address (skips discovery)")
	rootCmd.PersistentFlags().IntVar(&devicePort, "port", discovery.DefaultPort, "Device control port")

	// Add subcommands directly to root
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(controlCmd)
}

// discoverCmd sweeps the subnet for a DP564
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find the DP564 on the local subnet",
	Long: `Sweep the local subnet for a DP564.

The sweep probes the control port of every host address in the local
interface's subnet. A host that accepts the connection is confirmed by
checking its hardware address against the Dolby vendor prefixes, so open
ports on unrelated machines never produce a false match.

A confirmed device is cached in the configuration file, letting later
runs connect directly without repeating the sweep.`,
	Example: `  # Sweep the local /24
  dp564ctl discover

  # Slower networks may need a longer per-host probe
  dp564ctl discover --probe-timeout 500`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&probeTimeout, "probe-timeout", 0, "Per-host probe timeout in milliseconds (0 = configured default)")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeFromEnv(); err != nil {
		return err
	}
	defer logging.Sync()

	result, err := discoverDevice()
	if err != nil {
		return err
	}

	fmt.Printf("Found %s\n", result)
	fmt.Println("\nUse 'dp564ctl control' to connect")

	rememberDevice(result)
	return nil
}

// discoverDevice runs one sweep using the configured preferences.
func discoverDevice() (*discovery.Result, error) {
	local, prefixLen, err := discovery.LocalAddress()
	if err != nil {
		return nil, err
	}

	sweeper := discovery.NewSweeper(discovery.NewSystemTable())
	sweeper.Port = devicePort

	if prefs := loadPreferences(); prefs != nil {
		if prefs.ProbeTimeoutMs > 0 {
			sweeper.ProbeTimeout = time.Duration(prefs.ProbeTimeoutMs) * time.Millisecond
		}
		if prefs.SubnetPrefix > 0 {
			prefixLen = prefs.SubnetPrefix
		}
	}
	if probeTimeout > 0 {
		sweeper.ProbeTimeout = time.Duration(probeTimeout) * time.Millisecond
	}
	if prefixLen == 0 {
		prefixLen = discovery.DefaultPrefixLen
	}

	fmt.Printf("Sweeping %s/%d for a DP564 (port %d)...\n", local, prefixLen, sweeper.Port)

	result, err := sweeper.Sweep(context.Background(), local, prefixLen)
	if err != nil {
		if err == discovery.ErrNotFound {
			fmt.Println("No device found.")
			fmt.Println("\nTroubleshooting:")
			fmt.Println("  - Ensure the DP564 is powered on and connected to this subnet")
			fmt.Println("  - Check that remote control is enabled on the device")
			fmt.Println("  - Try increasing --probe-timeout for slower networks")
			fmt.Println("  - Use --device flag to specify the IP manually")
		}
		return nil, err
	}
	return result, nil
}

// loadPreferences returns the configured preferences, or nil when the
// registry cannot be read. Discovery works fine on defaults, so a broken
// config file is only a warning.
func loadPreferences() *config.Preferences {
	reg, err := config.GetGlobalRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring config file: %v\n", err)
		return nil
	}
	return reg.Preferences
}

// rememberDevice caches a confirmed device so later runs can skip the sweep.
func rememberDevice(result *discovery.Result) {
	reg, err := config.GetGlobalRegistry()
	if err != nil {
		return
	}
	reg.UpdateDeviceLastSeen(result.Hardware.String(), result.Addr.String(), result.Port)
	if err := reg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not cache device: %v\n", err)
	}
}

// controlCmd connects to the device and runs the operator loop
var controlCmd = &cobra.Command{
	Use:   "control",
	Short: "Connect to the DP564 and control it interactively",
	Long: `Connect to the DP564 and drive it interactively.

Commands: volume <db>, dim [on|off], source <name>, status, help, quit.

The device address comes from --device, the cached result of a previous
discovery, or a fresh subnet sweep, in that order. On a terminal the
full-screen control surface is used; otherwise a plain line-oriented
loop reads commands from stdin, suitable for scripting.`,
	Example: `  # Connect using the cache or a fresh sweep
  dp564ctl control

  # Connect to a known address
  dp564ctl control --device 192.168.1.80

  # Scripted use
  echo "volume -20" | dp564ctl control --device 192.168.1.80`,
	RunE: runControl,
}

func init() {
	controlCmd.Flags().BoolVar(&noCache, "no-cache", false, "Ignore the cached device address")
	controlCmd.Flags().BoolVar(&plainMode, "plain", false, "Force the plain line-oriented loop")
}

func runControl(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeFromEnv(); err != nil {
		return err
	}
	defer logging.Sync()

	sess, err := connectSession()
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	if plainMode || !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runPlainLoop(sess)
	}

	p := tea.NewProgram(tui.NewModel(sess))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("control surface error: %w", err)
	}
	return nil
}

// connectSession resolves the device address and establishes the session.
// Resolution order: --device flag, cached discovery result, fresh sweep.
// A stale cache entry that no longer answers falls through to a sweep.
func connectSession() (*session.Session, error) {
	if deviceIP != "" {
		target := net.JoinHostPort(deviceIP, fmt.Sprintf("%d", devicePort))
		sess := session.New(target, session.Options{})
		if err := sess.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", target, err)
		}
		return sess, nil
	}

	if !noCache {
		if sess := connectCached(); sess != nil {
			return sess, nil
		}
	}

	prefs := loadPreferences()
	if prefs != nil && !prefs.AutoDiscover {
		return nil, fmt.Errorf("no cached device and auto-discovery is disabled; use --device or 'dp564ctl discover'")
	}

	result, err := discoverDevice()
	if err != nil {
		return nil, err
	}
	rememberDevice(result)

	sess := session.New(result.HostPort(), session.Options{})
	if err := sess.Connect(); err != nil {
		return nil, fmt.Errorf("discovered %s but failed to connect: %w", result, err)
	}
	return sess, nil
}

// connectCached tries the most recently seen cached device. Returns nil on
// any failure so the caller falls back to a sweep.
func connectCached() *session.Session {
	reg, err := config.GetGlobalRegistry()
	if err != nil {
		return nil
	}
	mac, device := reg.MostRecentDevice()
	if device == nil {
		return nil
	}

	port := device.LastPort
	if port == 0 {
		port = discovery.DefaultPort
	}
	target := net.JoinHostPort(device.LastIP, fmt.Sprintf("%d", port))

	fmt.Printf("Trying cached device %s (%s)...\n", target, mac)
	sess := session.New(target, session.Options{})
	if err := sess.Connect(); err != nil {
		fmt.Printf("Cached device did not answer, falling back to discovery\n")
		return nil
	}

	reg.UpdateDeviceLastSeen(mac, device.LastIP, port)
	if err := reg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not update device cache: %v\n", err)
	}
	return sess
}

// runPlainLoop is the non-TTY operator loop: one command per stdin line.
// Stdin is read on its own goroutine so the select loop can keep ticking
// the session; the session itself is only ever touched from this loop.
func runPlainLoop(sess *session.Session) error {
	fmt.Printf("Connected to %s\n", sess.Target())
	fmt.Println(sess.State())

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			if err := sess.Tick(elapsed); err != nil {
				return err
			}

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			done, err := runPlainCommand(sess, line)
			if err != nil {
				fmt.Println(err)
			}
			if done {
				return nil
			}
		}
	}
}

// runPlainCommand executes one line of the plain loop. The returned bool
// reports that the operator asked to quit.
func runPlainCommand(sess *session.Session, line string) (bool, error) {
	cmd, err := tui.ParseCommand(line)
	if err != nil {
		return false, fmt.Errorf("%v\n%s", err, tui.HelpText())
	}

	switch cmd.Kind {
	case tui.CmdNone:
		return false, nil

	case tui.CmdVolume:
		return false, sess.SetVolume(cmd.VolumeDb)

	case tui.CmdDim:
		if cmd.DimSet {
			return false, sess.SetDim(cmd.DimOn)
		}
		_, err := sess.ToggleDim()
		return false, err

	case tui.CmdSource:
		return false, sess.SetSource(cmd.Source)

	case tui.CmdStatus:
		fmt.Println(sess.State())
		return false, nil

	case tui.CmdHelp:
		fmt.Println(tui.HelpText())
		return false, nil

	case tui.CmdQuit:
		return true, nil
	}

	return false, nil
}

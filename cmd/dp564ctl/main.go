// Dp564ctl is a network controller for the Dolby DP564 reference decoder.
//
// It locates a DP564 on the local subnet by probing the control port and
// matching the responder's hardware address against the Dolby vendor
// prefixes, then maintains a control session over the proprietary binary
// protocol: master volume, DIM (mute), and input source selection.
//
// Usage:
//
//	dp564ctl [command] [flags]
//
// Running without arguments launches the interactive control surface.
// See 'dp564ctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/dp564ctl/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dp564ctl",
	Short: "Dolby DP564 Network Controller",
	Long: `A network controller for the Dolby DP564 reference decoder.

Discovers the monitor on the local subnet and drives master volume,
DIM (mute), and input source selection over the vendor control protocol.

If no command is specified, the interactive control surface launches.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the control surface when no subcommand provided
		return runControl(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dp564ctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muurk/dp564ctl/internal/protocol"
)

// CommandKind identifies an operator command.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdVolume
	CmdDim
	CmdSource
	CmdStatus
	CmdHelp
	CmdQuit
)

// Command is a parsed operator command. Only the fields relevant to the
// Kind carry meaning.
type Command struct {
	Kind     CommandKind
	VolumeDb float64
	// DimSet distinguishes "dim on"/"dim off" from a bare "dim" toggle.
	DimSet bool
	DimOn  bool
	Source protocol.Source
}

// HelpText lists the operator commands. Shown on "help" and after any
// input that fails to parse.
func HelpText() string {
	return strings.Join([]string{
		"Commands:",
		"  volume <db>       set master volume (-95.0 to 0.0, half-dB steps)",
		"  dim [on|off]      toggle or set the DIM (mute) state",
		"  source <name>     select input (" + protocol.SourceNames() + ")",
		"  status            show last-known device state",
		"  help              show this help",
		"  quit              exit",
	}, "\n")
}

// ParseCommand parses one line of operator input. Empty input returns
// CmdNone with no error; anything unparseable returns an error describing
// what was wrong, never a partial command.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{Kind: CmdNone}, nil
	}

	switch fields[0] {
	case "volume", "vol", "v":
		if len(fields) < 2 {
			return Command{}, fmt.Errorf("volume requires a level in dB (e.g. volume -20)")
		}
		db, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return Command{}, fmt.Errorf("invalid volume level %q", fields[1])
		}
		return Command{Kind: CmdVolume, VolumeDb: db}, nil

	case "dim", "d":
		if len(fields) < 2 {
			return Command{Kind: CmdDim}, nil
		}
		switch fields[1] {
		case "on":
			return Command{Kind: CmdDim, DimSet: true, DimOn: true}, nil
		case "off":
			return Command{Kind: CmdDim, DimSet: true, DimOn: false}, nil
		default:
			return Command{}, fmt.Errorf("dim takes no argument, or on/off, got %q", fields[1])
		}

	case "source", "src":
		if len(fields) < 2 {
			return Command{}, fmt.Errorf("source requires a name (%s)", protocol.SourceNames())
		}
		src, err := protocol.ParseSource(fields[1])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdSource, Source: src}, nil

	case "status", "st":
		return Command{Kind: CmdStatus}, nil

	case "help", "h", "?":
		return Command{Kind: CmdHelp}, nil

	case "quit", "q", "exit":
		return Command{Kind: CmdQuit}, nil

	default:
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

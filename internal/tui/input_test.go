package tui

import (
	"strings"
	"testing"

	"github.com/muurk/dp564ctl/internal/protocol"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Command
		wantErr bool
	}{
		{
			name: "empty input",
			line: "",
			want: Command{Kind: CmdNone},
		},
		{
			name: "whitespace only",
			line: "   \t  ",
			want: Command{Kind: CmdNone},
		},
		{
			name: "volume with level",
			line: "volume -20.5",
			want: Command{Kind: CmdVolume, VolumeDb: -20.5},
		},
		{
			name: "volume alias",
			line: "v 0",
			want: Command{Kind: CmdVolume, VolumeDb: 0},
		},
		{
			name:    "volume without level",
			line:    "volume",
			wantErr: true,
		},
		{
			name:    "volume with garbage level",
			line:    "volume loud",
			wantErr: true,
		},
		{
			name: "bare dim toggles",
			line: "dim",
			want: Command{Kind: CmdDim},
		},
		{
			name: "dim on",
			line: "dim on",
			want: Command{Kind: CmdDim, DimSet: true, DimOn: true},
		},
		{
			name: "dim off",
			line: "dim off",
			want: Command{Kind: CmdDim, DimSet: true, DimOn: false},
		},
		{
			name:    "dim with garbage argument",
			line:    "dim sideways",
			wantErr: true,
		},
		{
			name: "source by name",
			line: "source optical",
			want: Command{Kind: CmdSource, Source: protocol.SourceOptical},
		},
		{
			name: "source is case-insensitive",
			line: "SOURCE AES1",
			want: Command{Kind: CmdSource, Source: protocol.SourceAES1},
		},
		{
			name:    "source without name",
			line:    "source",
			wantErr: true,
		},
		{
			name:    "source with unknown name",
			line:    "source vinyl",
			wantErr: true,
		},
		{
			name: "status",
			line: "status",
			want: Command{Kind: CmdStatus},
		},
		{
			name: "help",
			line: "help",
			want: Command{Kind: CmdHelp},
		},
		{
			name: "quit",
			line: "quit",
			want: Command{Kind: CmdQuit},
		},
		{
			name: "quit alias",
			line: "q",
			want: Command{Kind: CmdQuit},
		},
		{
			name:    "unknown command",
			line:    "reboot",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCommand(%q) expected error, got %+v", tt.line, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCommand(%q) error = %v", tt.line, err)
			}
			if got != tt.want {
				t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestHelpTextNamesEveryCommand(t *testing.T) {
	help := HelpText()
	for _, cmd := range []string{"volume", "dim", "source", "status", "help", "quit"} {
		if !strings.Contains(help, cmd) {
			t.Errorf("HelpText() missing command %q", cmd)
		}
	}

	// The source list in the help must stay in sync with the protocol enum
	if !strings.Contains(help, protocol.SourceNames()) {
		t.Errorf("HelpText() should list the source names %q", protocol.SourceNames())
	}
}

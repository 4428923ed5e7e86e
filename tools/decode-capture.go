//go:build ignore

// Decode-capture classifies captured DP564 traffic against the frame codec.
//
// Feed it a capture file with one hex-encoded read buffer per line (the
// format DP564CTL_LOG_LEVEL=debug logs as "hex"), and it reports how each
// buffer classifies, plus totals per frame kind. Lines starting with #
// are ignored.
//
// Usage:
//
//	go run tools/decode-capture.go capture.txt
//	grep 'Dropped unrecognized' session.log | ... | go run tools/decode-capture.go -
//
// This is the tool for triaging unrecognized frames: anything the monitor
// sends that the codec cannot classify shows up here with its raw bytes,
// ready to be turned into a new inbound prefix.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/muurk/dp564ctl/internal/protocol"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: go run tools/decode-capture.go <capture-file | ->")
		os.Exit(1)
	}

	in := os.Stdin
	if os.Args[1] != "-" {
		f, err := os.Open(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	counts := make(map[protocol.FrameKind]int)
	var unrecognized [][]byte
	lineNum := 0
	total := 0

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		buf, err := hex.DecodeString(strings.ReplaceAll(line, " ", ""))
		if err != nil {
			fmt.Fprintf(os.Stderr, "line %d: not valid hex: %v\n", lineNum, err)
			continue
		}

		total++
		frame := protocol.Classify(buf)
		counts[frame.Kind]++

		switch frame.Kind {
		case protocol.FrameUnrecognized:
			unrecognized = append(unrecognized, buf)
			fmt.Printf("line %-5d %-14s %s\n", lineNum, frame.Kind, hex.EncodeToString(buf))
		case protocol.FrameHeartbeat:
			fmt.Printf("line %-5d %s\n", lineNum, frame.Kind)
		case protocol.FrameVolumeAck, protocol.FrameVolumeUpdate:
			fmt.Printf("line %-5d %-14s value=0x%02x (%.1f dB)\n",
				lineNum, frame.Kind, frame.Value, protocol.ByteToVolume(frame.Value))
		case protocol.FrameDimAck:
			fmt.Printf("line %-5d %-14s value=0x%02x\n", lineNum, frame.Kind, frame.Value)
		case protocol.FrameSourceAck:
			src := protocol.Source(frame.Value)
			name := "undefined"
			if src.Valid() {
				name = src.String()
			}
			fmt.Printf("line %-5d %-14s value=0x%02x (%s)\n", lineNum, frame.Kind, frame.Value, name)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%d buffer(s) classified:\n", total)
	for _, kind := range []protocol.FrameKind{
		protocol.FrameHeartbeat,
		protocol.FrameVolumeAck,
		protocol.FrameVolumeUpdate,
		protocol.FrameDimAck,
		protocol.FrameSourceAck,
		protocol.FrameUnrecognized,
	} {
		if counts[kind] > 0 {
			fmt.Printf("  %-14s %d\n", kind, counts[kind])
		}
	}

	if len(unrecognized) > 0 {
		fmt.Printf("\n%d unrecognized buffer(s) need a codec prefix:\n", len(unrecognized))
		for _, buf := range unrecognized {
			fmt.Printf("  %s\n", hex.EncodeToString(buf))
		}
	}
}

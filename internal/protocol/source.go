package protocol

import "fmt"

// Source is a DP564 input source. The numeric value is the wire payload
// byte for the source select command and its acknowledgement.
type Source byte

const (
	SourceAES1      Source = 0x00
	SourceAES2      Source = 0x01
	SourceOptical   Source = 0x02
	SourceStreaming Source = 0x03
)

// sourceNames maps sources to the names used on the operator surface.
var sourceNames = map[Source]string{
	SourceAES1:      "aes1",
	SourceAES2:      "aes2",
	SourceOptical:   "optical",
	SourceStreaming: "streaming",
}

// Valid reports whether the source is one of the four defined inputs.
func (s Source) Valid() bool {
	_, ok := sourceNames[s]
	return ok
}

// String returns the operator-facing source name.
func (s Source) String() string {
	if name, ok := sourceNames[s]; ok {
		return name
	}
	return fmt.Sprintf("source(0x%02x)", byte(s))
}

// ParseSource converts an operator-supplied source name to a Source.
// Unknown names fail explicitly; there is no fallback.
func ParseSource(name string) (Source, error) {
	for src, n := range sourceNames {
		if n == name {
			return src, nil
		}
	}
	return 0, fmt.Errorf("unknown source %q (valid: %s)", name, SourceNames())
}

// SourceNames returns the valid source names in wire-byte order, for help
// and error messages.
func SourceNames() string {
	return "aes1, aes2, optical, streaming"
}

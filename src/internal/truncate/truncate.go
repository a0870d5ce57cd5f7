// FILE: logdot/src/internal/truncate/truncate.go
package truncate

import (
	"strings"
	"unicode/utf8"

	"logdot/src/internal/core"
)

// Message limits msg to maxBytes of UTF-8 and appends core.TruncationMarker
// when anything was cut. The marker is added after the cut, so the result may
// exceed maxBytes by len(core.TruncationMarker). Messages already within the
// budget are returned unchanged.
func Message(msg string, maxBytes int) string {
	if len(msg) <= maxBytes {
		return msg
	}
	return Prefix(msg, maxBytes) + core.TruncationMarker
}

// Default truncates msg to core.DefaultMaxMessageBytes.
func Default(msg string) string {
	return Message(msg, core.DefaultMaxMessageBytes)
}

// Prefix returns the longest valid UTF-8 prefix of msg that fits in maxBytes.
// A code point split by the cut is dropped, as are invalid byte sequences
// inside the kept prefix.
func Prefix(msg string, maxBytes int) string {
	if maxBytes <= 0 {
		return ""
	}
	if len(msg) <= maxBytes {
		return strings.ToValidUTF8(msg, "")
	}

	cut := maxBytes
	// msg[cut] exists; back up to the start of the code point it belongs to
	for cut > 0 && !utf8.RuneStart(msg[cut]) && maxBytes-cut < utf8.UTFMax {
		cut--
	}
	return strings.ToValidUTF8(msg[:cut], "")
}

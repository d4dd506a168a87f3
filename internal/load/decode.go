package load

import (
	"bufio"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffLen is how many bytes are inspected to decide the input encoding.
const sniffLen = 32 * 1024

// decodeReader wraps r so that the returned reader always yields UTF-8.
// Registry exports arrive in unpredictable encodings: UTF-8 (with or
// without BOM) is passed through, anything that is not valid UTF-8 is
// decoded as Windows-1252, which covers the Latin-1 family these systems
// actually produce.
func decodeReader(r io.Reader) io.Reader {
	br := bufio.NewReaderSize(r, sniffLen)
	sniff, _ := br.Peek(sniffLen)

	if isLikelyUTF8(sniff) {
		// Strips a UTF-8/UTF-16 BOM when present, otherwise passes through.
		return transform.NewReader(br, unicode.BOMOverride(unicode.UTF8.NewDecoder().Transformer))
	}
	return transform.NewReader(br, charmap.Windows1252.NewDecoder())
}

// isLikelyUTF8 reports whether b looks like UTF-8, tolerating a trailing
// partial rune cut off by the sniff window.
func isLikelyUTF8(b []byte) bool {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return true
		}
		b = b[:len(b)-1]
	}
	return utf8.Valid(b)
}

package core

// streaming.go decodes CSV input on the fly without loading whole files:
//
//   - a UTF-8 BOM written by Windows tools is removed
//   - invalid UTF-8 is replaced with U+FFFD
//   - Shift_JIS input, common in Japanese spreadsheet exports, is converted
//     to UTF-8 when requested
//
// Use WrapForStreaming to apply the decoding and byte counting together.

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names accepted by LookupEncoding.
const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift_jis"
)

// LookupEncoding returns the decoder for a configured encoding name.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "_")) {
	case "", "utf_8", "utf8":
		return unicode.UTF8BOM, nil
	case "shift_jis", "sjis", "cp932":
		return japanese.ShiftJIS, nil
	default:
		return nil, fmt.Errorf("encoding error: unsupported encoding %q", name)
	}
}

// CountingReader wraps an io.Reader to track bytes read.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// WrapForStreaming counts raw bytes and decodes them to clean UTF-8. The
// counter sits below the decoder so BytesRead reflects the file size.
func WrapForStreaming(r io.Reader, enc encoding.Encoding) (io.Reader, *CountingReader) {
	counter := &CountingReader{reader: r}
	return transform.NewReader(counter, enc.NewDecoder()), counter
}

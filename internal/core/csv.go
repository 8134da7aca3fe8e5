package core

import (
	"bufio"
	"io"
	"strings"
)

// SplitLine splits one CSV line on commas outside double quotes. A quote
// only toggles quoting and is dropped from the output; there is no escape
// for a literal quote.
//
// encoding/csv is not used because it rejects bare quotes inside unquoted
// fields, which the schedule exports contain.
func SplitLine(line string) []string {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	return append(fields, field.String())
}

// lineReader yields newline-delimited lines with their 1-based numbers.
type lineReader struct {
	r    *bufio.Reader
	line int
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next line without its terminator. It returns io.EOF
// after the last line.
func (lr *lineReader) Next() (string, int, error) {
	s, err := lr.r.ReadString('\n')
	if err == io.EOF && s == "" {
		return "", lr.line, io.EOF
	}
	if err != nil && err != io.EOF {
		return "", lr.line, err
	}
	lr.line++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, lr.line, nil
}

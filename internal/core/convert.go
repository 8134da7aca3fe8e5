package core

// convert.go turns raw CSV cells into typed database values.
//
// Source files come from scrapers and hand-edited spreadsheets, so dates
// arrive in several layouts and cells carry spreadsheet artifacts. Every
// conversion reports failure instead of guessing; the importer skips such
// rows.

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/racedata/internal/raceid"
)

// dateTimeLayouts are tried in order. Layouts without a zone are read as
// Japan Standard Time, the zone every schedule source publishes in.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"20060102",
}

// ParseDateTime parses a timestamp cell. ok is false for empty or
// unparseable input.
func ParseDateTime(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, raceid.JST); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CleanCell removes common CSV artifacts from a cell value:
// surrounding whitespace and the Excel formula wrapper (="...").
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}

	return strings.TrimSpace(s)
}

// convertCell converts one cell according to its spec. A nil value with a
// nil error means SQL NULL.
func convertCell(spec FieldSpec, raw string) (any, error) {
	raw = CleanCell(raw)
	if spec.Normalizer != nil && raw != "" {
		raw = spec.Normalizer(raw)
	}

	if raw == "" {
		if spec.Required {
			return nil, fmt.Errorf("required field %q is empty", spec.Name)
		}
		return nil, nil
	}

	switch spec.Type {
	case FieldDateTime:
		t, ok := ParseDateTime(raw)
		if !ok {
			return nil, fmt.Errorf("invalid date for %q: %q", spec.Name, raw)
		}
		// Stored in UTC so text-backed timestamps order correctly.
		return t.UTC(), nil

	case FieldInt:
		n, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
		if err != nil {
			return nil, fmt.Errorf("invalid number for %q: %q", spec.Name, raw)
		}
		return int64(n), nil

	case FieldEnum:
		for _, v := range spec.EnumValues {
			if strings.EqualFold(raw, v) {
				return v, nil
			}
		}
		return nil, fmt.Errorf("invalid enum for %q: %q", spec.Name, raw)

	default:
		return raw, nil
	}
}

// convertRow converts the positional fields of a line. Missing trailing
// fields are treated as empty; extra fields are ignored.
func convertRow(def TableDefinition, fields []string) (Row, error) {
	row := make(Row, len(def.FieldSpecs))
	for i, spec := range def.FieldSpecs {
		var raw string
		if i < len(fields) {
			raw = fields[i]
		} else if spec.Required {
			return nil, fmt.Errorf("missing required column %q", spec.Name)
		}
		v, err := convertCell(spec, raw)
		if err != nil {
			return nil, err
		}
		row[spec.Name] = v
	}
	if def.Transform != nil {
		if err := def.Transform(row); err != nil {
			return nil, err
		}
	}
	return row, nil
}

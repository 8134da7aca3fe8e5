package tables

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/JonMunkholm/racedata/internal/racetype"
)

// NormalizeRaceType maps race type names and tags ("jra", "World") to their
// canonical upper-case form. Unknown values are returned trimmed so the enum
// check rejects them.
func NormalizeRaceType(s string) string {
	s = strings.TrimSpace(s)
	if rt, err := racetype.Parse(s); err == nil {
		return string(rt)
	}
	return s
}

// fold maps full-width ASCII and half-width katakana to their standard
// widths and recomposes voiced marks, so "ﾀﾞ" becomes "ダ" rather than a
// base letter followed by a combining mark.
func fold(s string) string {
	return strings.TrimSpace(norm.NFC.String(width.Fold.String(s)))
}

// venueSuffixes are dropped from location cells, longest first.
var venueSuffixes = []string{
	"オートレース場", "ボートレース場", "ボートレース",
	"競馬場", "競輪場", "競艇場",
}

// NormalizeLocation folds full-width characters and strips venue suffixes:
// "東京競馬場" becomes "東京".
func NormalizeLocation(s string) string {
	s = fold(s)
	for _, suffix := range venueSuffixes {
		if trimmed := strings.TrimSuffix(s, suffix); trimmed != s && trimmed != "" {
			return trimmed
		}
	}
	return s
}

var gradePattern = regexp.MustCompile(`^(J\.G|Jpn|JPN|特G|G|F)(1|2|3|I{1,3})$`)

var gradeNumerals = map[string]string{
	"1": "Ⅰ", "I": "Ⅰ",
	"2": "Ⅱ", "II": "Ⅱ",
	"3": "Ⅲ", "III": "Ⅲ",
}

// NormalizeGrade rewrites ASCII grade spellings ("G1", "Jpn2", "GIII",
// full-width "Ｇ１") with Roman numeral characters, and "L" as "Listed".
func NormalizeGrade(s string) string {
	s = fold(s)
	if s == "L" {
		return "Listed"
	}
	m := gradePattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	prefix := m[1]
	if prefix == "JPN" {
		prefix = "Jpn"
	}
	return prefix + gradeNumerals[m[2]]
}

var surfaceAliases = map[string]string{
	"ダ":    "ダート",
	"dirt": "ダート",
	"turf": "芝",
	"障":    "障害",
	"aw":   "AW",
}

// NormalizeSurface maps short and English surface names to the stored form.
func NormalizeSurface(s string) string {
	s = fold(s)
	if v, ok := surfaceAliases[strings.ToLower(s)]; ok {
		return v
	}
	return s
}

func raceTypeNames() []string {
	all := racetype.All()
	out := make([]string, len(all))
	for i, rt := range all {
		out[i] = string(rt)
	}
	return out
}

package racename

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var overseasReplacer = strings.NewReplacer(
	"ステークス", "S",
	"カップ", "C",
	"(L)", "",
)

// NormalizeOverseas folds full-width letters and digits to half-width,
// abbreviates ステークス and カップ, and drops listed-race markers along with
// any parentheses they leave empty. Half-width katakana fold into base
// letters plus combining marks, so the result is recomposed before matching.
func NormalizeOverseas(name string) string {
	s := norm.NFC.String(width.Fold.String(name))
	for {
		next := overseasReplacer.Replace(s)
		next = strings.ReplaceAll(next, "()", "")
		next = strings.TrimSpace(next)
		if next == s {
			break
		}
		s = next
	}
	if s == "" {
		return name
	}
	return s
}

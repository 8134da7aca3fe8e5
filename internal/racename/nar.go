package racename

import (
	"regexp"
	"strings"
)

// Strip rules remove decoration that never belongs in a display name. They
// are applied repeatedly until the name stops changing.
var narStrips = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`[\s　]+`), " "},
	{regexp.MustCompile(`^第[0-9０-９]+回 ?`), ""},
	{regexp.MustCompile(`[（(][^（(）)]*[）)]`), ""},
	// Age, sex and class qualifiers only count when set off by a space so
	// that titles like 北海道2歳優駿 survive.
	{regexp.MustCompile(` [2-9２-９]歳.*$`), ""},
	{regexp.MustCompile(` [A-CＡ-Ｃ][0-9０-９].*$`), ""},
	{regexp.MustCompile(` (?:オープン|OP|ＯＰ|選抜|特別)$`), ""},
}

// narCollapse rewrites a title containing a known event to its short name.
// The first rule for the track that matches wins.
type narCollapse struct {
	re        *regexp.Regexp
	canonical string
}

func collapse(event, canonical string) narCollapse {
	return narCollapse{regexp.MustCompile(`^.*` + regexp.QuoteMeta(event) + `.*$`), canonical}
}

var narCollapses = map[string][]narCollapse{
	"大井": {
		collapse("東京ダービー", "東京ダービー"),
		collapse("東京大賞典", "東京大賞典"),
		collapse("帝王賞", "帝王賞"),
		collapse("ジャパンダートクラシック", "ジャパンダートクラシック"),
		collapse("東京プリンセス賞", "東京プリンセス賞"),
		collapse("羽田盃", "羽田盃"),
		collapse("東京盃", "東京盃"),
	},
	"川崎": {
		collapse("川崎記念", "川崎記念"),
		collapse("全日本2歳優駿", "全日本2歳優駿"),
		collapse("関東オークス", "関東オークス"),
		collapse("スパーキングレディーカップ", "スパーキングレディーC"),
	},
	"船橋": {
		collapse("かしわ記念", "かしわ記念"),
		collapse("日本テレビ盃", "日本テレビ盃"),
		collapse("ダイオライト記念", "ダイオライト記念"),
		collapse("クイーン賞", "クイーン賞"),
	},
	"浦和": {
		collapse("さきたま杯", "さきたま杯"),
		collapse("浦和記念", "浦和記念"),
		collapse("桜花賞", "浦和桜花賞"),
	},
	"門別": {
		collapse("北海道スプリントカップ", "北海道スプリントC"),
		collapse("ブリーダーズゴールドカップ", "ブリーダーズGC"),
		collapse("北海道2歳優駿", "北海道2歳優駿"),
	},
	"盛岡": {
		collapse("マイルチャンピオンシップ南部杯", "南部杯"),
		collapse("マーキュリーカップ", "マーキュリーC"),
		collapse("クラスターカップ", "クラスターC"),
	},
	"名古屋": {
		collapse("名古屋グランプリ", "名古屋グランプリ"),
		collapse("かきつばた記念", "かきつばた記念"),
		collapse("名古屋大賞典", "名古屋大賞典"),
	},
	"笠松": {
		collapse("オグリキャップ記念", "オグリキャップ記念"),
	},
	"金沢": {
		collapse("白山大賞典", "白山大賞典"),
	},
	"園田": {
		collapse("兵庫チャンピオンシップ", "兵庫チャンピオンシップ"),
		collapse("兵庫ゴールドトロフィー", "兵庫GT"),
		collapse("兵庫ジュニアグランプリ", "兵庫ジュニアGP"),
	},
	"高知": {
		collapse("黒船賞", "黒船賞"),
	},
	"佐賀": {
		collapse("佐賀記念", "佐賀記念"),
	},
}

// NormalizeNAR cleans a local race title and collapses well-known events at
// the given track to their short names.
func NormalizeNAR(name, place string) string {
	// Every rule shortens or keeps the name, so the loop reaches a fixed point.
	s := name
	for {
		next := s
		for _, r := range narStrips {
			next = r.re.ReplaceAllString(next, r.repl)
		}
		next = strings.TrimSpace(next)
		if next == s {
			break
		}
		s = next
	}

	for _, c := range narCollapses[place] {
		if c.re.MatchString(s) {
			return c.canonical
		}
	}
	if s == "" {
		return name
	}
	return s
}

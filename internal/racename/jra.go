package racename

import (
	"strings"
	"time"

	"github.com/JonMunkholm/racedata/internal/raceid"
)

// namedRace maps a long-form JRA title to its common name. The predicates
// are keyed on place, grade and month so at most one applies to a race.
type namedRace struct {
	canonical string
	match     func(in Input, month time.Month) bool
}

var jraNamedRaces = []namedRace{
	{"フェブラリーステークス", func(in Input, m time.Month) bool {
		return in.Place == "東京" && in.Grade == "GⅠ" && m == time.February &&
			in.SurfaceType == "ダート" && strings.Contains(in.Name, "フェブラリー")
	}},
	{"フィリーズレビュー", func(in Input, m time.Month) bool {
		return in.Place == "阪神" && in.Grade == "GⅡ" && m == time.March &&
			strings.Contains(in.Name, "フィリーズレビュー")
	}},
	{"桜花賞", func(in Input, m time.Month) bool {
		return in.Place == "阪神" && in.Grade == "GⅠ" && m == time.April &&
			strings.Contains(in.Name, "桜花賞")
	}},
	{"皐月賞", func(in Input, m time.Month) bool {
		return in.Place == "中山" && in.Grade == "GⅠ" && m == time.April &&
			strings.Contains(in.Name, "皐月賞")
	}},
	{"中山グランドジャンプ", func(in Input, m time.Month) bool {
		return in.Place == "中山" && in.Grade == "J.GⅠ" && m == time.April &&
			strings.Contains(in.Name, "グランドジャンプ")
	}},
	{"天皇賞(春)", func(in Input, m time.Month) bool {
		return in.Place == "京都" && in.Grade == "GⅠ" && (m == time.April || m == time.May) &&
			in.Distance == 3200 && strings.Contains(in.Name, "天皇賞")
	}},
	{"オークス", func(in Input, m time.Month) bool {
		return in.Place == "東京" && in.Grade == "GⅠ" && m == time.May &&
			strings.Contains(in.Name, "優駿牝馬")
	}},
	{"日本ダービー", func(in Input, m time.Month) bool {
		return in.Place == "東京" && in.Grade == "GⅠ" && (m == time.May || m == time.June) &&
			strings.Contains(in.Name, "東京優駿")
	}},
	{"ローズステークス", func(in Input, m time.Month) bool {
		return (in.Place == "阪神" || in.Place == "中京") && in.Grade == "GⅡ" && m == time.September &&
			strings.Contains(in.Name, "ローズ")
	}},
	{"秋華賞", func(in Input, m time.Month) bool {
		return in.Place == "京都" && in.Grade == "GⅠ" && m == time.October &&
			strings.Contains(in.Name, "秋華賞")
	}},
	{"菊花賞", func(in Input, m time.Month) bool {
		return in.Place == "京都" && in.Grade == "GⅠ" && m == time.October &&
			strings.Contains(in.Name, "菊花賞")
	}},
	{"天皇賞(秋)", func(in Input, m time.Month) bool {
		return in.Place == "東京" && in.Grade == "GⅠ" && (m == time.October || m == time.November) &&
			in.Distance == 2000 && strings.Contains(in.Name, "天皇賞")
	}},
	{"ジャパンカップ", func(in Input, m time.Month) bool {
		return in.Place == "東京" && in.Grade == "GⅠ" && m == time.November &&
			(strings.Contains(in.Name, "ジャパンカップ") || strings.Contains(in.Name, "ジャパンC"))
	}},
	{"チャンピオンズカップ", func(in Input, m time.Month) bool {
		return in.Place == "中京" && in.Grade == "GⅠ" && m == time.December &&
			in.SurfaceType == "ダート" && strings.Contains(in.Name, "チャンピオンズ")
	}},
	{"阪神ジュベナイルフィリーズ", func(in Input, m time.Month) bool {
		return in.Place == "阪神" && in.Grade == "GⅠ" && m == time.December &&
			strings.Contains(in.Name, "ジュベナイルフィリーズ")
	}},
	{"中山大障害", func(in Input, m time.Month) bool {
		return in.Place == "中山" && in.Grade == "J.GⅠ" && m == time.December &&
			strings.Contains(in.Name, "中山大障害")
	}},
	{"有馬記念", func(in Input, m time.Month) bool {
		return in.Place == "中山" && in.Grade == "GⅠ" && m == time.December &&
			strings.Contains(in.Name, "有馬記念")
	}},
}

// NormalizeJRA returns the common name of a named JRA race, or in.Name when
// the race is not one of them. The first matching predicate wins.
func NormalizeJRA(in Input) string {
	month := in.Date.In(raceid.JST).Month()
	for _, nr := range jraNamedRaces {
		if nr.match(in, month) {
			return nr.canonical
		}
	}
	return in.Name
}

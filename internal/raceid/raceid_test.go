package raceid

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/racedata/internal/racetype"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 40, 0, 0, JST)
}

func TestGeneratePlaceID(t *testing.T) {
	tests := []struct {
		name     string
		rt       racetype.RaceType
		dateTime time.Time
		location string
		want     string
	}{
		{"jra tokyo", racetype.JRA, date(2025, 4, 7), "東京", "jra2025040705"},
		{"nar ooi", racetype.NAR, date(2024, 12, 29), "大井", "nar2024122944"},
		{"keirin keiokaku", racetype.Keirin, date(2025, 1, 2), "京王閣", "keirin2025010227"},
		{"boatrace suminoe", racetype.Boatrace, date(2025, 12, 23), "住之江", "boatrace2025122312"},
		{"autorace iizuka", racetype.Autorace, date(2025, 6, 1), "飯塚", "autorace2025060105"},
		{"overseas longchamp", racetype.Overseas, date(2025, 10, 5), "パリロンシャン", "overseas2025100501"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GeneratePlaceID(tt.rt, tt.dateTime, tt.location)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGeneratePlaceID_UsesJapanDate(t *testing.T) {
	// 2025-04-06 16:30 UTC is 2025-04-07 01:30 JST.
	dt := time.Date(2025, 4, 6, 16, 30, 0, 0, time.UTC)
	got, err := GeneratePlaceID(racetype.JRA, dt, "東京")
	require.NoError(t, err)
	assert.Equal(t, "jra2025040705", got)
}

func TestGeneratePlaceID_UnknownLocation(t *testing.T) {
	_, err := GeneratePlaceID(racetype.JRA, date(2025, 4, 7), "ロンドン")
	assert.True(t, errors.Is(err, racetype.ErrUnknownLocation))
}

func TestGenerateRaceID(t *testing.T) {
	got, err := GenerateRaceID(racetype.JRA, date(2025, 4, 7), "東京", 1)
	require.NoError(t, err)
	assert.Equal(t, "jra202504070501", got)

	got, err = GenerateRaceID(racetype.Keirin, date(2025, 4, 7), "京王閣", 12)
	require.NoError(t, err)
	assert.Equal(t, "keirin202504072712", got)
}

func TestGenerateRaceID_OutOfRange(t *testing.T) {
	for _, n := range []int{-1, 0, 13, 100} {
		_, err := GenerateRaceID(racetype.JRA, date(2025, 4, 7), "東京", n)
		assert.True(t, errors.Is(err, ErrOutOfRange), "number %d", n)
	}
}

func TestGenerateRacePlayerID(t *testing.T) {
	got, err := GenerateRacePlayerID(racetype.Keirin, date(2025, 4, 7), "京王閣", 11, 9)
	require.NoError(t, err)
	assert.Equal(t, "keirin20250407271109", got)

	_, err = GenerateRacePlayerID(racetype.Autorace, date(2025, 4, 7), "川口", 11, 9)
	assert.True(t, errors.Is(err, ErrOutOfRange), "autorace allows 8 positions")

	_, err = GenerateRacePlayerID(racetype.Boatrace, date(2025, 4, 7), "桐生", 1, 0)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestRoundTrip(t *testing.T) {
	for _, rt := range racetype.All() {
		for _, loc := range racetype.Locations(rt) {
			for n := racetype.MinRaceNumber; n <= racetype.MaxRaceNumber; n++ {
				raceID, err := GenerateRaceID(rt, date(2025, 2, 28), loc, n)
				require.NoError(t, err)

				got, err := ValidateRaceID(rt, raceID)
				require.NoError(t, err)
				assert.Equal(t, raceID, got)

				playerID, err := GenerateRacePlayerID(rt, date(2025, 2, 28), loc, n, racetype.MaxPositionNumber(rt))
				require.NoError(t, err)
				assert.Equal(t, len(raceID)+2, len(playerID))
				assert.Equal(t, raceID, playerID[:len(raceID)])

				got, err = ValidateRacePlayerID(rt, playerID)
				require.NoError(t, err)
				assert.Equal(t, playerID, got)
			}
		}
	}
}

func TestValidateRaceID_RejectsOutOfRangeNumbers(t *testing.T) {
	for _, rt := range racetype.All() {
		placeID, err := GeneratePlaceID(rt, date(2025, 4, 7), racetype.Locations(rt)[0])
		require.NoError(t, err)
		for _, suffix := range []string{"00", "13", "50", "99"} {
			_, err := ValidateRaceID(rt, placeID+suffix)
			require.Error(t, err, "%s%s", placeID, suffix)
			assert.True(t, errors.Is(err, ErrOutOfRange))
		}
	}
}

func TestValidateRaceID_FirstFailureWins(t *testing.T) {
	tests := []struct {
		name    string
		rt      racetype.RaceType
		id      string
		want    error
		issues  int
		message string
	}{
		{
			name:    "prefix mismatch with otherwise valid digits",
			rt:      racetype.JRA,
			id:      "nar202504070501",
			want:    ErrPrefixMismatch,
			issues:  1,
			message: `must start with "jra"`,
		},
		{
			name:    "prefix and range both fail",
			rt:      racetype.JRA,
			id:      "nar202504070513",
			want:    ErrPrefixMismatch,
			issues:  2,
			message: `must start with "jra"`,
		},
		{
			name:    "too few digits",
			rt:      racetype.JRA,
			id:      "jra2025040705",
			want:    ErrPatternMismatch,
			issues:  1,
			message: `must be "jra" followed by 12 digits`,
		},
		{
			name:    "non digit characters",
			rt:      racetype.JRA,
			id:      "jra-20250407-tokyo-1",
			want:    ErrPatternMismatch,
			issues:  1,
			message: `must be "jra" followed by 12 digits`,
		},
		{
			name:    "impossible date",
			rt:      racetype.JRA,
			id:      "jra202513070501",
			want:    ErrPatternMismatch,
			issues:  1,
			message: "date 20251307 is not a calendar date",
		},
		{
			name:    "race number out of range",
			rt:      racetype.JRA,
			id:      "jra202504070513",
			want:    ErrOutOfRange,
			issues:  1,
			message: "race number 13 must be between 1 and 12",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateRaceID(tt.rt, tt.id)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.message, verr.First().Message)
			assert.Len(t, verr.Issues, tt.issues)
		})
	}
}

func TestValidate_PrefixIsCaseInsensitive(t *testing.T) {
	got, err := ValidateRaceID(racetype.JRA, "JRA202504070501")
	require.NoError(t, err)
	assert.Equal(t, "JRA202504070501", got)
}

func TestValidate_UnknownRaceType(t *testing.T) {
	_, err := ValidatePlaceID(racetype.RaceType("HORSE"), "horse2025040705")
	assert.True(t, errors.Is(err, racetype.ErrUnknownRaceType))
}

func TestValidateRacePlayerID_PositionBound(t *testing.T) {
	_, err := ValidateRacePlayerID(racetype.Keirin, "keirin20250407271109")
	require.NoError(t, err)

	_, err = ValidateRacePlayerID(racetype.Boatrace, "boatrace20250407010107")
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestParseRacePlayerID(t *testing.T) {
	p, err := ParseRacePlayerID(racetype.Keirin, "keirin20250407271109")
	require.NoError(t, err)
	assert.Equal(t, racetype.Keirin, p.RaceType)
	assert.Equal(t, "27", p.LocationCode)
	assert.Equal(t, "京王閣", p.Location)
	assert.Equal(t, 11, p.Number)
	assert.Equal(t, 9, p.Position)
	assert.True(t, p.Date.Equal(time.Date(2025, 4, 7, 0, 0, 0, 0, JST)))
}

func TestPlaceIDOf(t *testing.T) {
	got, err := PlaceIDOf(racetype.JRA, "jra202504070511")
	require.NoError(t, err)
	assert.Equal(t, "jra2025040705", got)

	_, err = PlaceIDOf(racetype.JRA, "jra2025")
	assert.True(t, errors.Is(err, ErrPatternMismatch))
}

package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/racedata/internal/core/tables"
	"github.com/JonMunkholm/racedata/internal/raceid"
	"github.com/JonMunkholm/racedata/internal/racename"
	"github.com/JonMunkholm/racedata/internal/racetype"
)

type idOptions struct {
	raceType string
	date     string
	location string
	number   int
	position int
}

func (o *idOptions) register(cmd *cobra.Command, number, position bool) {
	cmd.Flags().StringVarP(&o.raceType, "type", "t", "", "Race type (JRA, NAR, OVERSEAS, KEIRIN, AUTORACE, BOATRACE)")
	cmd.Flags().StringVarP(&o.date, "date", "d", "", "Race day (YYYY-MM-DD, JST)")
	cmd.Flags().StringVarP(&o.location, "location", "l", "", "Venue name, e.g. 東京")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("location")
	if number {
		cmd.Flags().IntVarP(&o.number, "number", "n", 0, "Race number (1-12)")
		_ = cmd.MarkFlagRequired("number")
	}
	if position {
		cmd.Flags().IntVarP(&o.position, "position", "p", 0, "Starting position")
		_ = cmd.MarkFlagRequired("position")
	}
}

func (o *idOptions) parse() (racetype.RaceType, time.Time, error) {
	rt, err := racetype.Parse(o.raceType)
	if err != nil {
		return "", time.Time{}, withCode(ExitUsage, err)
	}
	day, err := parseDayFlag("date", o.date)
	if err != nil {
		return "", time.Time{}, err
	}
	return rt, day, nil
}

func newIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "id",
		Short:   "Generate and validate place, race and race player ids",
		GroupID: groupIDs,
		Long: `Generate and validate identifiers of the form

  {race type tag}{YYYYMMDD}{venue code}[{race number}[{position}]]

Examples:
  racedata id place -t JRA -d 2025-04-07 -l 東京        # jra2025040705
  racedata id race -t KEIRIN -d 2025-12-30 -l 平塚 -n 11
  racedata id validate race jra202504070511 -t JRA`,
	}
	cmd.AddCommand(newIDPlaceCmd(), newIDRaceCmd(), newIDPlayerCmd(), newIDValidateCmd())
	return cmd
}

func newIDPlaceCmd() *cobra.Command {
	var o idOptions
	cmd := &cobra.Command{
		Use:   "place",
		Short: "Print the place id for a venue on a race day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, day, err := o.parse()
			if err != nil {
				return err
			}
			id, err := raceid.GeneratePlaceID(rt, day, o.location)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	o.register(cmd, false, false)
	return cmd
}

func newIDRaceCmd() *cobra.Command {
	var o idOptions
	cmd := &cobra.Command{
		Use:   "race",
		Short: "Print the race id for a race number at a venue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, day, err := o.parse()
			if err != nil {
				return err
			}
			id, err := raceid.GenerateRaceID(rt, day, o.location, o.number)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	o.register(cmd, true, false)
	return cmd
}

func newIDPlayerCmd() *cobra.Command {
	var o idOptions
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Print the race player id for a starting position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, day, err := o.parse()
			if err != nil {
				return err
			}
			id, err := raceid.GenerateRacePlayerID(rt, day, o.location, o.number, o.position)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	o.register(cmd, true, true)
	return cmd
}

func newIDValidateCmd() *cobra.Command {
	var raceType string
	cmd := &cobra.Command{
		Use:   "validate <place|race|player> <id>",
		Short: "Validate an id and print its parts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := racetype.Parse(raceType)
			if err != nil {
				return withCode(ExitUsage, err)
			}
			var parse func(racetype.RaceType, string) (raceid.Parts, error)
			switch args[0] {
			case "place":
				parse = raceid.ParsePlaceID
			case "race":
				parse = raceid.ParseRaceID
			case "player":
				parse = raceid.ParseRacePlayerID
			default:
				return usageErrorf("unknown id kind %q (want place, race or player)", args[0])
			}
			parts, err := parse(rt, args[1])
			if err != nil {
				return err
			}
			return printParts(cmd.OutOrStdout(), args[1], parts)
		},
	}
	cmd.Flags().StringVarP(&raceType, "type", "t", "", "Race type the id belongs to")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func printParts(w io.Writer, id string, p raceid.Parts) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "id\t%s\n", id)
	fmt.Fprintf(tw, "type\t%s\n", p.RaceType)
	fmt.Fprintf(tw, "date\t%s\n", p.Date.Format(time.DateOnly))
	fmt.Fprintf(tw, "location\t%s (%s)\n", p.Location, p.LocationCode)
	if p.Number > 0 {
		fmt.Fprintf(tw, "number\t%d\n", p.Number)
	}
	if p.Position > 0 {
		fmt.Fprintf(tw, "position\t%d\n", p.Position)
	}
	return tw.Flush()
}

type normalizeOptions struct {
	raceType string
	date     string
	location string
	grade    string
	surface  string
	distance int
}

func newNormalizeCmd() *cobra.Command {
	var o normalizeOptions
	cmd := &cobra.Command{
		Use:     "normalize <name>",
		Short:   "Print the canonical form of a race name",
		GroupID: groupIDs,
		Long: `Print the canonical form of a race name as stored on import.

Examples:
  racedata normalize "第92回 東京優駿" -t JRA -d 2025-06-01 -l 東京 -g GⅠ   # 日本ダービー
  racedata normalize "第71回 東京ダービー(SⅠ)" -t NAR -l 大井`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := racetype.Parse(o.raceType)
			if err != nil {
				return withCode(ExitUsage, err)
			}
			day, err := parseDayFlag("date", o.date)
			if err != nil {
				return err
			}
			if err := checkGrade(rt, o.grade); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), normalizeName(rt, args[0], day, o))
			return nil
		},
	}
	cmd.Flags().StringVarP(&o.raceType, "type", "t", "", "Race type")
	cmd.Flags().StringVarP(&o.date, "date", "d", "", "Race day (YYYY-MM-DD, JST)")
	cmd.Flags().StringVarP(&o.location, "location", "l", "", "Venue name")
	cmd.Flags().StringVarP(&o.grade, "grade", "g", "", "Grade, e.g. GⅠ")
	cmd.Flags().StringVar(&o.surface, "surface", "", "Track surface (芝, ダート, 障害)")
	cmd.Flags().IntVar(&o.distance, "distance", 0, "Distance in metres")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

// checkGrade rejects a grade flag that is not one of the race type's grades
// once normalized, listing the accepted ones.
func checkGrade(rt racetype.RaceType, grade string) error {
	if grade == "" {
		return nil
	}
	g := tables.NormalizeGrade(grade)
	if racetype.ValidGrade(rt, g) {
		return nil
	}
	return usageErrorf("grade %q is not a %s grade; use one of: %s",
		grade, rt, strings.Join(racetype.Grades(rt), ", "))
}

// normalizeName applies the import cell normalizers before the race name
// rules, so flag values may use the same spellings as CSV cells.
func normalizeName(rt racetype.RaceType, name string, day time.Time, o normalizeOptions) string {
	return racename.Normalize(rt, racename.Input{
		Name:        strings.TrimSpace(name),
		Place:       tables.NormalizeLocation(o.location),
		Grade:       tables.NormalizeGrade(o.grade),
		Date:        day,
		SurfaceType: tables.NormalizeSurface(o.surface),
		Distance:    o.distance,
	})
}

package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/racedata/internal/core"
	"github.com/JonMunkholm/racedata/internal/racetype"
)

func newTablesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "tables",
		Short:   "List import tables with their columns and row counts",
		GroupID: groupData,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TABLE\tROWS\tKEY\tCOLUMNS")
			for _, t := range svc.ListTables() {
				n, err := svc.TableRowCount(cmd.Context(), t.Key)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", t.Key, n,
					strings.Join(t.ConflictKey, "+"), strings.Join(t.Columns, ","))
			}
			return tw.Flush()
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "history [run-id]",
		Short:   "Show recent import runs, or the skipped rows of one run",
		GroupID: groupData,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				skipped, err := svc.SkippedRowsOf(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(skipped) == 0 {
					fmt.Fprintln(out, "no skipped rows")
					return nil
				}
				for _, s := range skipped {
					fmt.Fprintf(out, "%s line %d: %s\n    %s\n", s.FileName, s.LineNumber, s.Reason, strings.Join(s.Data, ","))
				}
				return nil
			}

			runs, err := svc.ImportHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "no imports recorded")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "STARTED\tRUN\tTABLE\tFILE\tSTATUS\tROWS\tINS\tUPD\tSAME\tSKIP")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
					r.StartedAt.Format(time.DateTime), r.RunID, r.TableKey, r.FileName, r.Status,
					r.TotalRows, r.Inserted, r.Updated, r.Unchanged, r.Skipped)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}

func newResetCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "reset <table>",
		Short:   "Delete every row of a table",
		GroupID: groupData,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return usageErrorf("reset deletes every row of %s; pass --yes to confirm", args[0])
			}
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			n, err := svc.Reset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d rows from %s\n", n, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	return cmd
}

// listFlags are the filters shared by places and races.
type listFlags struct {
	raceType string
	from     string
	to       string
	location string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.raceType, "type", "t", "", "Race type (JRA, NAR, OVERSEAS, KEIRIN, AUTORACE, BOATRACE)")
	cmd.Flags().StringVar(&f.from, "from", "", "First day, inclusive (YYYY-MM-DD, JST)")
	cmd.Flags().StringVar(&f.to, "to", "", "Last day, inclusive (YYYY-MM-DD, JST)")
	cmd.Flags().StringVarP(&f.location, "location", "l", "", "Venue name")
}

func (f *listFlags) parse() (rt racetype.RaceType, from, to time.Time, err error) {
	if f.raceType != "" {
		if rt, err = racetype.Parse(f.raceType); err != nil {
			return "", from, to, withCode(ExitUsage, err)
		}
	}
	if from, err = parseDayFlag("from", f.from); err != nil {
		return "", from, to, err
	}
	if to, err = parseDayFlag("to", f.to); err != nil {
		return "", from, to, err
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1)
	}
	return rt, from, to, nil
}

func parseDayFlag(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, ok := core.ParseDateTime(v)
	if !ok {
		return time.Time{}, usageErrorf("--%s: invalid date %q", name, v)
	}
	return t, nil
}

func newPlacesCmd(a *app) *cobra.Command {
	var f listFlags

	cmd := &cobra.Command{
		Use:     "places",
		Short:   "List stored places",
		GroupID: groupData,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, from, to, err := f.parse()
			if err != nil {
				return err
			}
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			places, err := svc.ListPlaces(cmd.Context(), core.PlaceFilter{
				RaceType: rt, From: from, To: to, Location: f.location,
			})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tDATE\tLOCATION")
			for _, p := range places {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.RaceType, p.DateTime.Format(time.DateOnly), p.Location)
			}
			return tw.Flush()
		},
	}
	f.register(cmd)
	return cmd
}

func newRacesCmd(a *app) *cobra.Command {
	var (
		f     listFlags
		grade string
	)

	cmd := &cobra.Command{
		Use:     "races [race-id]",
		Short:   "List stored races, or show one race",
		GroupID: groupData,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				r, err := svc.GetRace(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "id\t%s\n", r.ID)
				fmt.Fprintf(tw, "type\t%s\n", r.RaceType)
				fmt.Fprintf(tw, "name\t%s\n", r.Name)
				fmt.Fprintf(tw, "start\t%s\n", r.DateTime.Format(time.DateTime))
				fmt.Fprintf(tw, "location\t%s\n", r.Location)
				fmt.Fprintf(tw, "grade\t%s\n", r.Grade)
				fmt.Fprintf(tw, "number\t%d\n", r.Number)
				if r.Stage != "" {
					fmt.Fprintf(tw, "stage\t%s\n", r.Stage)
				}
				if r.SurfaceType != "" {
					fmt.Fprintf(tw, "course\t%s %dm\n", r.SurfaceType, r.Distance)
				}
				return tw.Flush()
			}

			rt, from, to, err := f.parse()
			if err != nil {
				return err
			}
			races, err := svc.ListRaces(cmd.Context(), core.RaceFilter{
				RaceType: rt, From: from, To: to, Location: f.location, Grade: grade,
			})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTART\tLOCATION\tR\tGRADE\tNAME")
			for _, r := range races {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
					r.ID, r.DateTime.Format("2006-01-02 15:04"), r.Location, r.Number, r.Grade, r.Name)
			}
			return tw.Flush()
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&grade, "grade", "g", "", "Grade, e.g. GⅠ")
	return cmd
}

func newPlayersCmd(a *app) *cobra.Command {
	var raceType string

	cmd := &cobra.Command{
		Use:     "players",
		Short:   "List players of a race type by priority",
		GroupID: groupData,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := racetype.Parse(raceType)
			if err != nil {
				return withCode(ExitUsage, err)
			}
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			players, err := svc.ListPlayers(cmd.Context(), rt)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NUMBER\tPRIORITY\tNAME")
			for _, p := range players {
				fmt.Fprintf(tw, "%d\t%d\t%s\n", p.PlayerNumber, p.Priority, p.Name)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&raceType, "type", "t", "", "Race type (KEIRIN, AUTORACE, BOATRACE)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/racedata/internal/core"
)

// maxPrintedSkips caps the skipped rows listed after an import.
const maxPrintedSkips = 10

type importOptions struct {
	dir    string
	all    bool
	dryRun bool
}

func newImportCmd(a *app) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:     "import [table] [file]",
		Short:   "Import CSV files into the database",
		GroupID: groupData,
		Long: `Import a CSV file into one table, or every <table>.csv in a directory.

The first line of each file is a header and is skipped. Columns are read by
position. Lines that fail conversion are skipped and listed; every other line
is upserted, so importing the same file twice changes nothing.

Examples:
  racedata import place data/place.csv
  racedata import --dir data
  racedata import --all                 # every file in IMPORT_DIR
  racedata import race data/race.csv --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			whole := opts.dir != "" || opts.all
			switch {
			case whole && len(args) != 0:
				return usageErrorf("--dir and --all take no table or file arguments")
			case whole && opts.dryRun:
				return usageErrorf("--dry-run needs a single table and file")
			case !whole && len(args) != 2:
				return usageErrorf("import needs a table and a file, or --dir")
			}

			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if whole {
				results, err := svc.ImportDir(cmd.Context(), opts.dir)
				for _, res := range results {
					printResult(out, res)
				}
				if err != nil {
					return err
				}
				if len(results) == 0 {
					fmt.Fprintln(out, "no <table>.csv files found")
				}
				return nil
			}

			if opts.dryRun {
				res, err := svc.PreviewFile(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				printPreview(out, res)
				return nil
			}
			res, err := svc.ImportFile(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printResult(out, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "", "Import every <table>.csv in this directory, parents first")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Import every <table>.csv in the configured import directory")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report what the import would do without keeping any change")
	return cmd
}

func printResult(w io.Writer, res *core.ImportResult) {
	fmt.Fprintf(w, "%s -> %s: %d rows, %d inserted, %d updated, %d unchanged, %d skipped (%s)\n",
		res.FileName, res.TableKey, res.TotalRows,
		res.Inserted, res.Updated, res.Unchanged, res.Skipped,
		res.Duration.Round(time.Millisecond))
	printSkipped(w, res.SkippedRows)
}

func printPreview(w io.Writer, res *core.PreviewResult) {
	fmt.Fprintf(w, "dry run %s -> %s: %d rows, %d would insert, %d would update, %d unchanged, %d skipped\n",
		res.FileName, res.TableKey, res.TotalRows,
		res.Inserted, res.Updated, res.Unchanged, res.Skipped)
	printSkipped(w, res.SkippedRows)
	for _, d := range res.Duplicates {
		lines := make([]string, len(d.LineNumbers))
		for i, n := range d.LineNumbers {
			lines[i] = fmt.Sprint(n)
		}
		fmt.Fprintf(w, "  duplicate key %s on lines %s\n", d.Key, strings.Join(lines, ", "))
	}
}

func printSkipped(w io.Writer, skipped []core.SkippedRow) {
	for i, s := range skipped {
		if i == maxPrintedSkips {
			fmt.Fprintf(w, "  ... %d more skipped\n", len(skipped)-maxPrintedSkips)
			return
		}
		fmt.Fprintf(w, "  line %d skipped: %s\n", s.LineNumber, s.Reason)
	}
}

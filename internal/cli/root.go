// Package cli implements the racedata command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/racedata/internal/core"
	"github.com/JonMunkholm/racedata/internal/store"
)

// Opener connects to the database and builds the import service.
type Opener func(ctx context.Context) (*store.Store, *core.Service, error)

// defaultDrainWait bounds how long shutdown waits for running imports
// after the command context is cancelled.
const defaultDrainWait = 10 * time.Second

// app holds the lazily opened store so commands that only build ids or
// names never touch the database.
type app struct {
	open      Opener
	st        *store.Store
	svc       *core.Service
	drainWait time.Duration
}

func (a *app) service(ctx context.Context) (*core.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	st, svc, err := a.open(ctx)
	if err != nil {
		return nil, err
	}
	a.st, a.svc = st, svc
	return svc, nil
}

func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	if _, err := a.service(ctx); err != nil {
		return nil, err
	}
	return a.st, nil
}

// close releases the store. When ctx was cancelled by a signal, imports
// still holding a limiter slot get up to drainWait to finish first.
func (a *app) close(ctx context.Context) {
	if a.st == nil {
		return
	}
	if ctx.Err() != nil {
		a.drain()
	}
	a.st.Close()
	a.st, a.svc = nil, nil
}

func (a *app) drain() {
	lim := a.svc.Limiter()
	ctx, cancel := context.WithTimeout(context.Background(), a.drainWait)
	defer cancel()
	if err := lim.WaitForDrain(ctx); err != nil {
		slog.Warn("imports still running at shutdown",
			"active", lim.ActiveCount(),
			"max_concurrent", lim.MaxConcurrent(),
			"error", err)
	}
}

const (
	groupData = "data"
	groupIDs  = "ids"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "racedata",
		Short: "Race schedule identifiers, name normalization and CSV import",
		Long: `racedata - race schedule data for JRA, NAR, overseas, keirin, autorace and boatrace
  - import place, race and player CSV files idempotently
  - generate and validate place, race and race player ids
  - normalize race names the way the schedule feeds publish them`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(ExitUsage, err)
	})

	root.AddGroup(
		&cobra.Group{ID: groupData, Title: "Data Commands:"},
		&cobra.Group{ID: groupIDs, Title: "Identifier Commands:"},
	)

	root.AddCommand(
		newMigrateCmd(a),
		newImportCmd(a),
		newTablesCmd(a),
		newHistoryCmd(a),
		newResetCmd(a),
		newPlacesCmd(a),
		newRacesCmd(a),
		newPlayersCmd(a),
		newIDCmd(),
		newNormalizeCmd(),
	)
	return root
}

// Execute runs the command line with args, writing output to out and
// errOut. The store, if a command opened it, is closed before returning.
func Execute(ctx context.Context, open Opener, args []string, out, errOut io.Writer) error {
	a := &app{open: open, drainWait: defaultDrainWait}
	defer a.close(ctx)

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "migrate",
		Short:   "Create or update the database schema",
		GroupID: groupData,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := st.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

package main

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/iota-uz/herdbook/migrations"
)

type migrationLine struct {
	Version   int64      `json:"version"`
	Path      string     `json:"path"`
	State     string     `json:"state,omitempty"`
	Direction string     `json:"direction,omitempty"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
	Duration  string     `json:"duration,omitempty"`
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down|status",
		Short:     "Apply, roll back or list the herd schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, a, args[0])
		},
	}
}

func runMigrate(cmd *cobra.Command, a *app, action string) error {
	db, err := migrations.Open(a.conf.Database.Opts)
	if err != nil {
		return withCode(exitDB, err)
	}
	defer db.Close()

	p, err := migrations.NewProvider(db, a.conf.MigrationsDir)
	if err != nil {
		return withCode(exitValidation, err)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	switch action {
	case "status":
		statuses, err := p.Status(ctx)
		if err != nil {
			return withCode(exitDB, errors.Wrap(err, "migration status"))
		}
		for _, st := range statuses {
			line := migrationLine{Version: st.Source.Version, Path: st.Source.Path, State: string(st.State)}
			if !st.AppliedAt.IsZero() {
				at := st.AppliedAt
				line.AppliedAt = &at
			}
			if err := writeJSONLine(out, line); err != nil {
				return err
			}
		}
		return nil
	case "up":
		results, err := p.Up(ctx)
		if err != nil {
			return withCode(exitDBWrite, errors.Wrap(err, "migrate up"))
		}
		return writeResults(cmd, results)
	default:
		result, err := p.Down(ctx)
		if err != nil {
			if errors.Is(err, goose.ErrNoNextVersion) {
				return nil
			}
			return withCode(exitDBWrite, errors.Wrap(err, "migrate down"))
		}
		return writeResults(cmd, []*goose.MigrationResult{result})
	}
}

func writeResults(cmd *cobra.Command, results []*goose.MigrationResult) error {
	for _, r := range results {
		line := migrationLine{
			Version:   r.Source.Version,
			Path:      r.Source.Path,
			Direction: r.Direction,
			Duration:  r.Duration.String(),
		}
		if err := writeJSONLine(cmd.OutOrStdout(), line); err != nil {
			return err
		}
	}
	return nil
}

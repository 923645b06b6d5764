package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/herdbook/pkg/composables"
	"github.com/iota-uz/herdbook/pkg/configuration"
	"github.com/iota-uz/herdbook/pkg/logging"
	"github.com/iota-uz/herdbook/pkg/metrics"
)

// app is the process-wide state shared by the subcommands.
type app struct {
	envFiles        []string
	conf            *configuration.Configuration
	metricsTextfile string
	gatherer        prometheus.Gatherer
	stopTracing     func()
	out             io.Writer
}

func newApp() *app {
	return &app{
		envFiles: []string{".env", ".env.local"},
		gatherer: prometheus.DefaultGatherer,
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "herd-data",
		Short:         "Farm workbook import, analysis and export tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&a.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file on exit (default: PROMETHEUS_TEXTFILE)")

	cmd.AddCommand(newImportCmd(a))
	cmd.AddCommand(newAnalyzeCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newMigrateCmd(a))
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	conf, err := configuration.Load(a.envFiles)
	if err != nil {
		return withCode(exitValidation, fmt.Errorf("load configuration: %w", err))
	}
	a.conf = conf
	if a.metricsTextfile == "" {
		a.metricsTextfile = conf.Prometheus.Textfile
	}

	logger := conf.Logger()
	if conf.Log.Path == "" {
		// stdout carries the JSON output.
		logger.SetOutput(cmd.ErrOrStderr())
	}
	if conf.OpenTelemetry.Enabled {
		a.stopTracing = logging.SetupTracing(cmd.Context(), conf.OpenTelemetry.ServiceName, conf.OpenTelemetry.TempoURL)
		logger.Info("OpenTelemetry tracing enabled, exporting to " + conf.OpenTelemetry.TempoURL)
	}

	ctx := composables.WithLogger(cmd.Context(), logrus.NewEntry(logger).WithField("command", cmd.Name()))
	cmd.SetContext(ctx)
	return nil
}

// finish flushes tracing and metrics. It runs whether or not the command
// succeeded.
func (a *app) finish() error {
	if a.stopTracing != nil {
		a.stopTracing()
	}
	var err error
	if a.conf != nil {
		err = metrics.WriteTextfile(a.metricsTextfile, a.gatherer)
		a.conf.Unload()
	}
	return err
}

func connectDB(ctx context.Context, conf *configuration.Configuration) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, withCode(exitDB, errors.Wrap(err, "connect db"))
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, withCode(exitDB, errors.Wrap(err, "ping db"))
	}
	return pool, nil
}

func run(a *app, args []string) error {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	if a.out != nil {
		cmd.SetOut(a.out)
	}
	err := cmd.ExecuteContext(context.Background())
	if fErr := a.finish(); fErr != nil && err == nil {
		err = fErr
	}
	return err
}

func Execute() {
	if err := run(newApp(), os.Args[1:]); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}

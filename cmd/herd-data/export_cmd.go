package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/iota-uz/herdbook/modules/herd"
	"github.com/iota-uz/herdbook/pkg/composables"
)

type exportOptions struct {
	Owner  string `validate:"required,uuid"`
	Output string `validate:"required"`
}

type exportResult struct {
	Output string `json:"output"`
	Bytes  int    `json:"bytes"`
}

func newExportCmd(a *app) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an owner's herd to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Owner, "owner", "", "Owner UUID (required)")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Output .xlsx path (required)")

	return cmd
}

func runExport(cmd *cobra.Command, a *app, opts exportOptions) error {
	if err := validateFlags(opts); err != nil {
		return err
	}
	ownerID := uuid.MustParse(opts.Owner)

	ctx := cmd.Context()
	pool, err := connectDB(ctx, a.conf)
	if err != nil {
		return err
	}
	defer pool.Close()
	ctx = composables.WithPool(ctx, pool)

	data, err := herd.NewModule(herd.Options{}).Export.Export(ctx, ownerID)
	if err != nil {
		return classify(err)
	}

	dir := filepath.Dir(opts.Output)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return withCode(exitDB, fmt.Errorf("mkdir %s: %w", dir, err))
	}
	if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
		return withCode(exitDB, fmt.Errorf("write %s: %w", opts.Output, err))
	}
	return writeJSONLine(cmd.OutOrStdout(), exportResult{Output: opts.Output, Bytes: len(data)})
}

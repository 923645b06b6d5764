package main

import (
	"github.com/spf13/cobra"

	"github.com/iota-uz/herdbook/modules/herd/infrastructure/spreadsheet"
	"github.com/iota-uz/herdbook/modules/herd/services"
)

type analyzeOptions struct {
	File string `validate:"required"`
	Rows int    `validate:"gte=0"`
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Describe the worksheets of a workbook and suggest a mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("rows") {
				opts.Rows = a.conf.Import.PreviewRows
			}
			return runAnalyze(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "Workbook to analyze (required)")
	cmd.Flags().IntVar(&opts.Rows, "rows", 3, "Preview rows per worksheet (default: IMPORT_PREVIEW_ROWS)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, a *app, opts analyzeOptions) error {
	if err := validateFlags(opts); err != nil {
		return err
	}
	wb, err := spreadsheet.NewReader(a.conf.Import.MaxWorkbookSize).ReadFile(opts.File)
	if err != nil {
		return classify(err)
	}
	return writeJSONLine(cmd.OutOrStdout(), services.NewAnalyzeService().Analyze(wb, opts.Rows))
}

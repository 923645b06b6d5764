package main

import (
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/iota-uz/herdbook/modules/herd"
	"github.com/iota-uz/herdbook/modules/herd/domain/mapping"
	"github.com/iota-uz/herdbook/modules/herd/infrastructure/spreadsheet"
	"github.com/iota-uz/herdbook/pkg/composables"
)

type importOptions struct {
	Owner    string `validate:"required,uuid"`
	File     string `validate:"required"`
	Mapping  string
	Standard bool
}

// importFailure is printed in place of a report when the import aborts.
type importFailure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func newImportCmd(a *app) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a farm workbook for one owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Owner, "owner", "", "Owner UUID (required)")
	cmd.Flags().StringVar(&opts.File, "file", "", "Workbook to import: .xlsx, .xlsm or .csv (required)")
	cmd.Flags().StringVar(&opts.Mapping, "mapping", "", "Mapping document: .json, .yaml or .toml (default: IMPORT_MAPPING_PATH)")
	cmd.Flags().BoolVar(&opts.Standard, "standard", false, "Use the built-in standard mapping")
	cmd.MarkFlagsMutuallyExclusive("mapping", "standard")

	return cmd
}

// resolveMapping picks the mapping: --standard, then --mapping, then the
// configured path, then the built-in template.
func resolveMapping(opts importOptions, configured string) (*mapping.Config, error) {
	if opts.Standard {
		return mapping.Default(), nil
	}
	path := strings.TrimSpace(opts.Mapping)
	if path == "" {
		path = strings.TrimSpace(configured)
	}
	if path == "" {
		return mapping.Default(), nil
	}
	cfg, err := mapping.Load(path)
	if err != nil {
		return nil, withCode(exitValidation, err)
	}
	return cfg, nil
}

func runImport(cmd *cobra.Command, a *app, opts importOptions) error {
	if err := validateFlags(opts); err != nil {
		return err
	}
	ownerID := uuid.MustParse(opts.Owner)

	cfg, err := resolveMapping(opts, a.conf.Import.MappingPath)
	if err != nil {
		return err
	}
	wb, err := spreadsheet.NewReader(a.conf.Import.MaxWorkbookSize).ReadFile(opts.File)
	if err != nil {
		return classify(err)
	}

	ctx := cmd.Context()
	pool, err := connectDB(ctx, a.conf)
	if err != nil {
		return err
	}
	defer pool.Close()
	ctx = composables.WithPool(ctx, pool)

	mod := herd.NewModule(herd.Options{OwnerLock: a.conf.Import.OwnerLock})
	report, err := mod.Import.Import(ctx, ownerID, cfg, wb)
	if err != nil {
		_ = writeJSONLine(cmd.OutOrStdout(), importFailure{Success: false, Message: err.Error()})
		return classify(err)
	}
	return writeJSONLine(cmd.OutOrStdout(), report)
}

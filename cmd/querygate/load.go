package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mercator-hq/querygate/pkg/cli"
	"mercator-hq/querygate/pkg/store"
)

var loadFlags struct {
	resource string
	file     string
	quiet    bool
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load rows into a resource's table",
	Long: `Create a resource's table if needed and insert rows from a YAML or JSON
file. The file holds a list of objects whose keys are declared properties:

  - title: Go in Action
    price: 35.5
  - title: SQL Antipatterns
    price: 9.99

Every row is checked before the first insert; an undeclared key rejects
the whole file.

Examples:
  querygate load --resource books --file books.yaml
  querygate load --resource books --file books.json --db data/books.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return loadRows(cmd.Context(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVarP(&loadFlags.resource, "resource", "r", "", "catalog resource name (required)")
	loadCmd.Flags().StringVarP(&loadFlags.file, "file", "f", "", "YAML or JSON rows file (required)")
	loadCmd.Flags().BoolVarP(&loadFlags.quiet, "quiet", "q", false, "no progress output")
}

func loadRows(ctx context.Context, progressOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if loadFlags.resource == "" {
		return cli.NewConfigError("resource", "--resource is required")
	}
	if loadFlags.file == "" {
		return cli.NewConfigError("file", "--file is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := commandLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	snap, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	res, ok := snap.Get(loadFlags.resource)
	if !ok {
		return cli.NewConfigError("resource", fmt.Sprintf("no resource named %q in %s", loadFlags.resource, cfg.Catalog.Path))
	}

	rows, err := readRowsFile(loadFlags.file)
	if err != nil {
		return cli.NewCommandError("load", err)
	}
	for i, row := range rows {
		for _, key := range sortedKeys(row) {
			if !res.Schema.Has(key) {
				return cli.NewCommandError("load", fmt.Errorf("row %d: %q is not a declared property of %s", i, key, res.Name))
			}
		}
	}

	st, err := store.Open(storeConfig(cfg), logger.Slog())
	if err != nil {
		return cli.NewCommandError("load", err)
	}
	defer st.Close()

	if err := st.EnsureTable(ctx, res.Table, res.Schema); err != nil {
		return cli.NewCommandError("load", err)
	}

	var progress cli.ProgressReporter = noProgress{}
	if !loadFlags.quiet {
		progress = cli.NewProgressReporter(progressOut, "rows")
	}
	progress.Start(int64(len(rows)))
	for i, row := range rows {
		if err := st.Insert(ctx, res.Table, row); err != nil {
			progress.Error(err)
			return cli.NewCommandError("load", fmt.Errorf("row %d: %w", i, err))
		}
		progress.Update(int64(i + 1))
	}
	progress.Finish()

	logger.Info("rows loaded", "resource", res.Name, "table", res.Table, "rows", len(rows))
	return nil
}

// readRowsFile decodes a list of objects. JSON is valid YAML, so one
// decoder serves both.
func readRowsFile(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows file: %w", err)
	}
	var rows []map[string]any
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse rows file %q: %w", path, err)
	}
	return rows, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type noProgress struct{}

func (noProgress) Start(int64)  {}
func (noProgress) Update(int64) {}
func (noProgress) Finish()      {}
func (noProgress) Error(error)  {}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mercator-hq/querygate/pkg/catalog"
	"mercator-hq/querygate/pkg/cli"
)

var lintFlags struct {
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint [catalog.yaml ...]",
	Short: "Validate catalog files",
	Long: `Validate resource catalog files.

Each file is parsed and every resource is checked:
  - name present and unique
  - template is a valid URI template
  - table is a plain identifier
  - properties have valid names and known types
  - default_top, when set, is between 1 and 1000

Without arguments the configured catalog.path is checked.

Examples:
  # Lint the configured catalog
  querygate lint

  # Lint specific files
  querygate lint catalog.yaml staging/catalog.yaml

  # JSON output for CI/CD
  querygate lint catalog.yaml --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return lintCatalogs(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult is the outcome of linting one catalog file.
type LintResult struct {
	File      string   `json:"file"`
	Valid     bool     `json:"valid"`
	Resources int      `json:"resources,omitempty"`
	Version   string   `json:"version,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

func lintCatalogs(w io.Writer, files []string) error {
	if len(files) == 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		files = []string{cfg.Catalog.Path}
	}

	results := make([]LintResult, 0, len(files))
	failed := 0
	for _, file := range files {
		res := lintFile(file)
		if !res.Valid {
			failed++
		}
		results = append(results, res)
	}

	switch lintFlags.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	case "text", "":
		for _, res := range results {
			if res.Valid {
				fmt.Fprintf(w, "✓ %s: %d resources (version %s)\n", res.File, res.Resources, res.Version)
				continue
			}
			fmt.Fprintf(w, "✗ %s\n", res.File)
			for _, msg := range res.Errors {
				fmt.Fprintf(w, "    %s\n", msg)
			}
		}
	default:
		return cli.NewConfigError("format", fmt.Sprintf("unknown format %q: must be 'text' or 'json'", lintFlags.format))
	}

	if failed > 0 {
		return cli.NewCommandError("lint", fmt.Errorf("%d of %d catalog files invalid", failed, len(files)))
	}
	return nil
}

func lintFile(file string) LintResult {
	snap, err := catalog.Load(file)
	if err == nil {
		return LintResult{File: file, Valid: true, Resources: snap.Len(), Version: snap.Version()}
	}

	res := LintResult{File: file}
	var perr *catalog.ParseError
	if errors.As(err, &perr) && len(perr.Resources) > 0 {
		for _, re := range perr.Resources {
			res.Errors = append(res.Errors, re.Error())
		}
		return res
	}
	res.Errors = []string{err.Error()}
	return res
}

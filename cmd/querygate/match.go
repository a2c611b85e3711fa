package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"mercator-hq/querygate/pkg/server/handlers"
)

var matchFlags struct {
	output string
}

var matchCmd = &cobra.Command{
	Use:   "match URI",
	Short: "Resolve a URI and show the planned SQL",
	Long: `Resolve a resource URI against the catalog, validate its parameters and
print the matched resource, the decoded parameters, the validated query and
the SQL that a read would run. Nothing is executed.

Exit status is 4 when no resource matches and 3 when a parameter is
rejected.

Examples:
  querygate match "odata://catalog/books?filter=price%20gt%2010&orderby=title%20desc"
  querygate match "odata://catalog/books?top=5" --output json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return matchURI(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringVarP(&matchFlags.output, "output", "o", "text", "output format: text, json")
}

func matchURI(ctx context.Context, w io.Writer, uri string) error {
	if ctx == nil {
		ctx = context.Background()
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

	plan, err := newGateway(cfg, snap, nil, logger).Explain(ctx, uri)
	if err != nil {
		return err
	}
	resp := handlers.NewExplainResponse(plan)

	if matchFlags.output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Fprintf(w, "resource: %s (table %s)\n", resp.Resource, resp.Table)
	fmt.Fprintln(w, "params:")
	names := make([]string, 0, len(resp.Params))
	for name := range resp.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s = %s\n", name, resp.Params[name])
	}
	fmt.Fprintln(w, "query:")
	printQueryView(w, resp.Query)
	fmt.Fprintf(w, "sql: %s\n", resp.SQL)
	if len(resp.Args) > 0 {
		fmt.Fprintf(w, "args: %v\n", resp.Args)
	}
	return nil
}

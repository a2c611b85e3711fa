package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/querygate/pkg/cli"
	"mercator-hq/querygate/pkg/params"
	"mercator-hq/querygate/pkg/server/handlers"
)

var checkFlags struct {
	resource string
	params   []string
	encoded  bool
	output   string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate query parameters against a resource",
	Long: `Validate query parameters against a catalog resource's whitelist and print
the validated query. Nothing is executed.

Values are taken as already decoded unless --encoded is set, in which case
each value is percent-decoded once ('+' stays a plus sign).

Exit status is 3 when a parameter is rejected.

Examples:
  querygate check --resource books --param "filter=price gt 10" --param "orderby=title desc"
  querygate check --resource books --param "filter=price%20gt%2010" --encoded
  querygate check --resource books --param top=5 --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkParams(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.resource, "resource", "r", "", "catalog resource name (required)")
	checkCmd.Flags().StringArrayVarP(&checkFlags.params, "param", "p", nil, "parameter as name=value (repeatable)")
	checkCmd.Flags().BoolVar(&checkFlags.encoded, "encoded", false, "values are percent-encoded")
	checkCmd.Flags().StringVarP(&checkFlags.output, "output", "o", "text", "output format: text, json")
}

func checkParams(w io.Writer) error {
	if checkFlags.resource == "" {
		return cli.NewConfigError("resource", "--resource is required")
	}
	values, err := parseParamFlags(checkFlags.params)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	snap, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	res, ok := snap.Get(checkFlags.resource)
	if !ok {
		return cli.NewConfigError("resource", fmt.Sprintf("no resource named %q in %s", checkFlags.resource, cfg.Catalog.Path))
	}

	v := params.New(res.Schema, paramLimits(cfg))
	var q *params.Query
	if checkFlags.encoded {
		q, err = v.ValidateEncoded(values)
	} else {
		q, err = v.Validate(values)
	}
	if err != nil {
		return err
	}

	view := handlers.NewQueryView(q)
	if checkFlags.output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Resource string             `json:"resource"`
			Query    handlers.QueryView `json:"query"`
		}{res.Name, view})
	}

	fmt.Fprintf(w, "✓ Parameters valid for %s\n", res.Name)
	printQueryView(w, view)
	return nil
}

// parseParamFlags splits name=value flags. A repeated name is an error.
func parseParamFlags(flags []string) (map[string]string, error) {
	values := make(map[string]string, len(flags))
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, cli.NewConfigError("param", fmt.Sprintf("%q is not name=value", f))
		}
		if _, dup := values[name]; dup {
			return nil, cli.NewConfigError("param", fmt.Sprintf("parameter %q given more than once", name))
		}
		values[name] = value
	}
	return values, nil
}

func printQueryView(w io.Writer, view handlers.QueryView) {
	fmt.Fprintf(w, "  filter:  %s\n", orDash(view.Filter))
	fmt.Fprintf(w, "  select:  %s\n", orDash(strings.Join(view.Select, ", ")))
	fmt.Fprintf(w, "  orderby: %s\n", orDash(strings.Join(view.OrderBy, ", ")))
	fmt.Fprintf(w, "  top:     %s\n", intOrDash(view.Top))
	fmt.Fprintf(w, "  skip:    %s\n", intOrDash(view.Skip))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func intOrDash(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprint(*n)
}

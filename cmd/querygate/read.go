package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/querygate/pkg/cli"
	"mercator-hq/querygate/pkg/store"
)

var readFlags struct {
	output string
}

var readCmd = &cobra.Command{
	Use:   "read URI",
	Short: "Read a resource from the command line",
	Long: `Run a resource read against the configured store and print the rows.

Examples:
  querygate read "odata://catalog/books?filter=price%20gt%2010"
  querygate read "odata://catalog/books?select=title&top=5" --output csv --db books.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return readURI(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().StringVarP(&readFlags.output, "output", "o", "text", "output format: text, json, csv")
}

func readURI(ctx context.Context, w io.Writer, uri string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := cli.ParseOutputFormat(readFlags.output)
	if err != nil {
		return err
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

	st, err := store.Open(storeConfig(cfg), logger.Slog())
	if err != nil {
		return cli.NewCommandError("read", err)
	}
	defer st.Close()

	result, err := newGateway(cfg, snap, st, logger).Read(ctx, uri)
	if err != nil {
		return err
	}

	return cli.NewFormatter(format).FormatTo(w, &cli.Table{
		Columns: result.Columns,
		Rows:    result.Rows,
	})
}

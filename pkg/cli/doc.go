/*
Package cli provides command-line helpers for the querygate command.

Output Formatting:

Row results are wrapped in a Table so every format keeps column order:

	formatter := cli.NewFormatter(cli.FormatCSV)
	table := &cli.Table{Columns: result.Columns, Rows: result.Rows}
	if err := formatter.FormatTo(os.Stdout, table); err != nil {
		return err
	}

Exit Codes:

ExitCode maps an error to the process exit status: 2 for configuration
errors, 3 for a rejected query, 4 when no resource matches.

Progress Reporting:

	progress := cli.NewProgressReporter(os.Stderr, "rows")
	progress.Start(int64(len(rows)))
	for i, row := range rows {
		// insert row
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/export"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/tabnet"
	"github.com/spf13/cobra"
)

// Expected row count of a full-detail report: header, total and one row per
// epidemiological week.
const (
	reportMinRows = 50
	reportMaxRows = 60
)

var (
	reportState string
	reportYear  int
	reportRaw   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Download one full-detail TabNet report (week of first symptoms x UF of infection)",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := resolveState(reportState)
		if err != nil {
			return err
		}
		if reportYear == 0 {
			reportYear = time.Now().Year()
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		client := newTabNetClient()
		q := tabnet.DetailByWeek(st.Abbreviation, reportYear)
		path := outputPath(export.ReportFileName(st.Abbreviation, reportYear, reportRaw))

		fmt.Printf("Fetching %s report for %s %d...\n", q.RowDimension, st.Abbreviation, reportYear)
		logVerbose("  endpoint: %s", client.Endpoint(st.Abbreviation))

		if reportRaw {
			text, err := client.FetchText(ctx, q)
			if err != nil {
				return err
			}
			rows := tabnet.ParseRaw(text)
			if err := export.WriteFile(path, export.Semicolon, nil, export.ReportRows(rows)); err != nil {
				return err
			}
			fmt.Printf("Saved %d raw lines to %s\n", len(rows), path)
			return nil
		}

		rows, err := client.FetchReport(ctx, q)
		if err != nil {
			return err
		}
		if err := export.WriteFile(path, export.Comma, nil, export.ReportRows(rows)); err != nil {
			return err
		}
		fmt.Printf("Saved %d rows to %s\n", len(rows), path)

		switch {
		case len(rows) > reportMaxRows:
			warnf("more rows than expected (%d > %d); check for duplicates or extra data", len(rows), reportMaxRows)
		case len(rows) < reportMinRows:
			warnf("fewer rows than expected (%d < %d); check that every week was captured", len(rows), reportMinRows)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportState, "state", "s", "", "State abbreviation or name (prompted when empty)")
	reportCmd.Flags().IntVarP(&reportYear, "year", "y", 0, "Report year (default: current year)")
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "Write every parsed line as-is, semicolon separated")
	rootCmd.AddCommand(reportCmd)
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/aggregator"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/export"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/store"
	"github.com/spf13/cobra"
)

var (
	dengueState        string
	dengueMunicipality string
	dengueFirstYear    int
	dengueLastYear     int
	denguePrompt       bool
)

var dengueCmd = &cobra.Command{
	Use:   "dengue",
	Short: "Collect weekly dengue cases per municipality from TabNet, one report per year",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("first-year") {
			dengueFirstYear = cfg.Collect.FirstYear
		}

		st, err := resolveState(dengueState)
		if err != nil {
			return err
		}
		if dengueMunicipality == "" && denguePrompt {
			dengueMunicipality, err = prompt(stdin, os.Stdout, "Municipio (como aparece no SINAN, vazio para todos): ")
			if err != nil {
				return err
			}
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		opts := aggregator.Options{
			State:        st.Abbreviation,
			Municipality: dengueMunicipality,
			FirstYear:    dengueFirstYear,
			LastYear:     dengueLastYear,
		}
		first, last := opts.YearRange(time.Now())
		fmt.Printf("Collecting dengue cases for %s, %d-%d...\n", st.Name, first, last)

		rec := startRecording(model.DatasetDengue, st.Abbreviation)
		defer rec.close()

		data, err := aggregator.Aggregate(ctx, newTabNetClient(), opts, time.Now(), slog.Default())
		if err != nil {
			return err
		}
		for _, f := range data.Failures {
			warnf("year %d skipped: %s", f.Year, f.Err)
		}
		if len(data.Records) == 0 {
			fmt.Println("No records collected.")
			return nil
		}

		path := outputPath(export.DengueFileName(st.Abbreviation, dengueMunicipality, data.FirstYear, data.LastYear))
		if err := export.WriteFile(path, export.Semicolon, export.CaseHeader, export.CaseRows(data.Records)); err != nil {
			return err
		}
		fmt.Printf("Saved %d records to %s\n", len(data.Records), path)

		rec.save(len(data.Records), func(s *store.Store, runID string) error {
			return s.WriteCases(runID, data)
		})
		return nil
	},
}

func init() {
	dengueCmd.Flags().StringVarP(&dengueState, "state", "s", "", "State abbreviation or name (prompted when empty)")
	dengueCmd.Flags().StringVarP(&dengueMunicipality, "municipality", "m", "", "Only keep municipalities whose label contains this text")
	dengueCmd.Flags().IntVar(&dengueFirstYear, "first-year", 2021, "First year to collect")
	dengueCmd.Flags().IntVar(&dengueLastYear, "last-year", 0, "Last year to collect (default: current epidemiological year)")
	dengueCmd.Flags().BoolVar(&denguePrompt, "prompt", false, "Ask for the municipality when --municipality is not given")
	rootCmd.AddCommand(dengueCmd)
}

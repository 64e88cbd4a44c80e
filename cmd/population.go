package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/export"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/population"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/store"
	"github.com/spf13/cobra"
)

var (
	populationState string
	populationYears []int
)

var populationCmd = &cobra.Command{
	Use:   "population",
	Short: "Collect municipal population per year from IBGE and the local census tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("years") {
			populationYears = cfg.Collect.PopulationYears
		}

		for _, f := range []string{cfg.Collect.CensusCSV, cfg.Collect.EstimatesCSV} {
			if _, err := os.Stat(f); err != nil {
				return fmt.Errorf("local table %s not found: %w", f, err)
			}
		}

		st, err := resolveState(populationState)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		collector := &population.Collector{
			IBGE:         newIBGEClient(),
			CensusCSV:    cfg.Collect.CensusCSV,
			EstimatesCSV: cfg.Collect.EstimatesCSV,
			Threshold:    cfg.Collect.MatchThreshold,
		}

		dir := filepath.Join(outputDir, export.PopulationDir(st.Name, time.Now()))
		fmt.Printf("Writing population tables for %s to %s\n", st.Name, dir)

		rec := startRecording(model.DatasetPopulation, st.Abbreviation)
		defer rec.close()

		var all []model.PopulationRecord
		for _, year := range populationYears {
			if ctx.Err() != nil {
				fmt.Println("Interrupted.")
				break
			}

			records, err := collector.Year(ctx, st, year)
			if err != nil {
				warnf("population for %d failed: %v", year, err)
				continue
			}
			if population.HasInvalid(records) {
				warnf("some population values for %d are <= 0", year)
			}

			path := filepath.Join(dir, export.PopulationFileName(st.Name, year))
			if err := export.WriteFile(path, export.CommaWithBOM, export.PopulationHeader, export.PopulationRows(records)); err != nil {
				return err
			}
			fmt.Printf("  %d: %d municipalities -> %s\n", year, len(records), path)
			all = append(all, records...)
		}

		rec.save(len(all), func(s *store.Store, runID string) error {
			return s.WritePopulation(runID, st.Abbreviation, all)
		})
		return nil
	},
}

func init() {
	populationCmd.Flags().StringVarP(&populationState, "state", "s", "", "State abbreviation or name (prompted when empty)")
	populationCmd.Flags().IntSliceVar(&populationYears, "years", nil, "Years to collect (default from config)")
	rootCmd.AddCommand(populationCmd)
}

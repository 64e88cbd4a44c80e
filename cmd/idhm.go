package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/export"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/ipea"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/store"
	"github.com/spf13/cobra"
)

var idhmState string

var idhmCmd = &cobra.Command{
	Use:   "idhm",
	Short: "Collect the 2010 municipal human development index from Ipeadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := resolveState(idhmState)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		fmt.Printf("Collecting IDHM %s for %s...\n", ipea.IDHMYear, st.Name)

		rec := startRecording(model.DatasetIDHM, st.Abbreviation)
		defer rec.close()

		records, err := newIpeaClient().IDHM(ctx, newIBGEClient(), st)
		if err != nil {
			return err
		}
		if ipea.OutOfRange(records) {
			warnf("some IDHM values are outside the expected range [%.1f, %.1f]", ipea.IDHMMin, ipea.IDHMMax)
		}

		path := outputPath(export.IDHMFileName(st.Name))
		if err := export.WriteFile(path, export.CommaWithBOM, export.IDHMHeader, export.IDHMRows(records)); err != nil {
			return err
		}
		fmt.Printf("Saved %d municipalities to %s\n", len(records), path)

		rec.save(len(records), func(s *store.Store, runID string) error {
			return s.WriteIDHM(runID, st.Abbreviation, records)
		})
		return nil
	},
}

func init() {
	idhmCmd.Flags().StringVarP(&idhmState, "state", "s", "", "State abbreviation or name (prompted when empty)")
	rootCmd.AddCommand(idhmCmd)
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/export"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/store"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/weather"
	"github.com/spf13/cobra"
)

var weatherState string

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Collect daily weather since 2021 at every municipality centroid of a state",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("rate-limit") {
			cfg.Meteostat.RateLimit, _ = cmd.Flags().GetFloat64("rate-limit")
		}
		if cfg.Meteostat.APIKey == "" {
			return fmt.Errorf("set [meteostat] api_key in %s or METEOSTAT_API_KEY", configPath)
		}

		st, err := resolveState(weatherState)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		end := time.Now()
		fmt.Printf("Collecting daily weather for %s, %s to %s...\n",
			st.Name, weather.SeriesStart.Format("2006-01-02"), end.Format("2006-01-02"))

		rec := startRecording(model.DatasetWeather, st.Abbreviation)
		defer rec.close()

		records, err := weather.Collect(ctx, newIBGEClient(), newMeteostatClient(), st, weather.SeriesStart, end, slog.Default())
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No weather data collected.")
			return nil
		}

		path := outputPath(export.WeatherFileName(st.Abbreviation))
		if err := export.WriteFile(path, export.CommaWithBOM, export.WeatherHeader, export.WeatherRows(records)); err != nil {
			return err
		}
		fmt.Printf("Saved %d daily rows to %s\n", len(records), path)

		rec.save(len(records), func(s *store.Store, runID string) error {
			return s.WriteWeather(runID, st.Abbreviation, records)
		})
		return nil
	},
}

func init() {
	weatherCmd.Flags().StringVarP(&weatherState, "state", "s", "", "State abbreviation or name (prompted when empty)")
	weatherCmd.Flags().Float64("rate-limit", 2, "Weather API requests per second (0 disables pacing)")
	rootCmd.AddCommand(weatherCmd)
}

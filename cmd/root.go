package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/config"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/states"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/store"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	outputDir  string
	verbose    bool
	noStore    bool
	configPath string
	cfg        *config.Config
	stateTable = states.New()
)

var rootCmd = &cobra.Command{
	Use:   "outbreak",
	Short: "Collect dengue, population, IDHM and weather data for Brazilian municipalities",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if !cmd.Flags().Changed("data-dir") {
			dataDir = cfg.Data.Dir
		}
		if !cmd.Flags().Changed("output-dir") {
			outputDir = cfg.Data.OutputDir
		}
		if !cmd.Flags().Changed("no-store") {
			noStore = !cfg.Data.Store
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "data", "Directory for the local database")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory CSV files are written to")
	rootCmd.PersistentFlags().BoolVar(&noStore, "no-store", false, "Only write CSV files, skip the local database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func Execute() error {
	return rootCmd.Execute()
}

func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "WARNING: "+format+"\n", args...)
}

// resolveState reads --state, prompting on stdin when it is empty.
func resolveState(flag string) (model.State, error) {
	if flag == "" {
		var err error
		flag, err = prompt(stdin, os.Stdout, "Estado (sigla ou nome, ex.: 'PE' ou 'Pernambuco'): ")
		if err != nil {
			return model.State{}, err
		}
	}
	return stateTable.Resolve(flag)
}

func outputPath(name string) string {
	return filepath.Join(outputDir, name)
}

// recorder persists a run's results unless --no-store is set. A store
// failure is reported but never fails the command once the CSV is written.
type recorder struct {
	store *store.Store
	run   *model.Run
}

func startRecording(dataset model.Dataset, state string) *recorder {
	if noStore {
		return &recorder{}
	}
	s, err := store.New(dataDir)
	if err != nil {
		warnf("local database unavailable: %v", err)
		return &recorder{}
	}
	run, err := s.StartRun(dataset, state)
	if err != nil {
		warnf("recording run: %v", err)
		s.Close()
		return &recorder{}
	}
	return &recorder{store: s, run: run}
}

// save runs write against the open store, then stamps the run.
func (r *recorder) save(records int, write func(s *store.Store, runID string) error) {
	if r.store == nil {
		return
	}
	if err := write(r.store, r.run.ID); err != nil {
		warnf("saving to local database: %v", err)
		return
	}
	if err := r.store.FinishRun(r.run, records); err != nil {
		warnf("finishing run: %v", err)
	}
	logVerbose("Saved run %s to %s", r.run.ID, dataDir)
}

func (r *recorder) close() {
	if r.store != nil {
		r.store.Close()
	}
}

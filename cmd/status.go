package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/store"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statusRuns int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what is stored in the local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		totals := newTable()
		totals.SetTitle("Stored datasets")
		totals.AppendHeader(table.Row{"Dataset", "Rows"})
		totals.AppendRows([]table.Row{
			{model.DatasetDengue, s.CaseCount()},
			{model.DatasetPopulation, s.PopulationCount()},
			{model.DatasetIDHM, s.IDHMCount()},
			{model.DatasetWeather, s.WeatherCount()},
		})
		totals.Render()

		datasets := []model.Dataset{model.DatasetDengue, model.DatasetPopulation, model.DatasetIDHM, model.DatasetWeather}
		byState := make(map[string]map[model.Dataset]int)
		for _, d := range datasets {
			for st, n := range s.CountByState(d) {
				if byState[st] == nil {
					byState[st] = make(map[model.Dataset]int)
				}
				byState[st][d] = n
			}
		}
		if len(byState) > 0 {
			var abbrs []string
			for st := range byState {
				abbrs = append(abbrs, st)
			}
			sort.Strings(abbrs)

			per := newTable()
			per.SetTitle("Per-state breakdown")
			per.AppendHeader(table.Row{"State", "Dengue", "Population", "IDHM", "Weather"})
			for _, st := range abbrs {
				c := byState[st]
				per.AppendRow(table.Row{st, c[model.DatasetDengue], c[model.DatasetPopulation], c[model.DatasetIDHM], c[model.DatasetWeather]})
			}
			fmt.Println()
			per.Render()
		}

		runs, err := s.ListRuns(statusRuns)
		if err != nil {
			return err
		}
		if len(runs) > 0 {
			rt := newTable()
			rt.SetTitle("Recent runs")
			rt.AppendHeader(table.Row{"Started", "Dataset", "State", "Records", "Finished", "ID"})
			for _, r := range runs {
				finished := "-"
				if !r.FinishedAt.IsZero() {
					finished = r.FinishedAt.Local().Format("2006-01-02 15:04")
				}
				rt.AppendRow(table.Row{r.StartedAt.Local().Format("2006-01-02 15:04"), r.Dataset, r.State, r.Records, finished, r.ID})
			}
			fmt.Println()
			rt.Render()
		}

		return nil
	},
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	return t
}

func init() {
	statusCmd.Flags().IntVar(&statusRuns, "runs", 10, "Number of recent runs to list")
	rootCmd.AddCommand(statusCmd)
}

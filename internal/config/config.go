package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all user-facing configuration for the collectors.
type Config struct {
	Data      DataConfig      `toml:"data"`
	TabNet    TabNetConfig    `toml:"tabnet"`
	Collect   CollectConfig   `toml:"collect"`
	IBGE      IBGEConfig      `toml:"ibge"`
	Ipea      IpeaConfig      `toml:"ipea"`
	Meteostat MeteostatConfig `toml:"meteostat"`
	Server    ServerConfig    `toml:"server"`
}

type DataConfig struct {
	Dir       string `toml:"dir"`
	OutputDir string `toml:"output_dir"`
	Store     bool   `toml:"store"`
}

type TabNetConfig struct {
	BaseURL        string `toml:"base_url"`
	DefinitionPath string `toml:"definition_path"`
	Method         string `toml:"method"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout is the advisory per-request timeout; zero means none.
func (c TabNetConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type CollectConfig struct {
	FirstYear       int     `toml:"first_year"`
	PopulationYears []int   `toml:"population_years"`
	CensusCSV       string  `toml:"census_csv"`
	EstimatesCSV    string  `toml:"estimates_csv"`
	MatchThreshold  float64 `toml:"match_threshold"`
}

type IBGEConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type IpeaConfig struct {
	BaseURL string `toml:"base_url"`
}

type MeteostatConfig struct {
	BaseURL   string  `toml:"base_url"`
	APIKey    string  `toml:"api_key"`
	RateLimit float64 `toml:"rate_limit"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Defaults returns a Config populated with built-in default values.
func Defaults() *Config {
	return &Config{
		Data: DataConfig{Dir: "data", OutputDir: ".", Store: true},
		TabNet: TabNetConfig{
			BaseURL:        "http://tabnet.datasus.gov.br/cgi/tabcgi.exe",
			DefinitionPath: "sinannet/cnv/dengueb%s.def",
			Method:         "POST",
			UserAgent:      "Mozilla/5.0",
			TimeoutSeconds: 60,
		},
		Collect: CollectConfig{
			FirstYear:       2021,
			PopulationYears: []int{2021, 2022, 2023, 2024},
			CensusCSV:       "tabela2022.csv",
			EstimatesCSV:    "tabela2023.csv",
			MatchThreshold:  0.95,
		},
		IBGE:      IBGEConfig{BaseURL: "https://servicodados.ibge.gov.br/api", TimeoutSeconds: 30},
		Ipea:      IpeaConfig{BaseURL: "http://www.ipeadata.gov.br/api/odata4"},
		Meteostat: MeteostatConfig{BaseURL: "https://meteostat.p.rapidapi.com", RateLimit: 2},
		Server:    ServerConfig{Host: "localhost", Port: 8080},
	}
}

// Load reads a TOML config file. If the file does not exist, built-in
// defaults are returned without error. METEOSTAT_API_KEY overrides the
// configured key.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if key := os.Getenv("METEOSTAT_API_KEY"); key != "" {
		cfg.Meteostat.APIKey = key
	}

	return cfg, nil
}

package cmd

import (
	"log/slog"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/ibge"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/ipea"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/meteostat"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/tabnet"
)

func newTabNetClient() *tabnet.Client {
	t := cfg.TabNet
	return tabnet.NewClient(t.BaseURL, t.DefinitionPath, t.Method, t.UserAgent, t.Timeout(), stateTable)
}

func ibgeTimeout() time.Duration {
	return time.Duration(cfg.IBGE.TimeoutSeconds) * time.Second
}

func newIBGEClient() *ibge.Client {
	return ibge.NewClient(cfg.IBGE.BaseURL, ibgeTimeout(), slog.Default())
}

func newIpeaClient() *ipea.Client {
	return ipea.NewClient(cfg.Ipea.BaseURL, ibgeTimeout(), slog.Default())
}

func newMeteostatClient() *meteostat.Client {
	m := cfg.Meteostat
	return meteostat.NewClient(m.BaseURL, m.APIKey, m.RateLimit, ibgeTimeout(), slog.Default())
}

package ibge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/localidades/estados/26/municipios", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":2611606,"nome":"Recife"},{"id":2609600,"nome":"Olinda"}]`))
	})
	mux.HandleFunc("/v1/localidades/municipios", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":2611606,"nome":"Recife"},{"id":1100015,"nome":"Alta Floresta D'Oeste"}]`))
	})
	mux.HandleFunc("/v3/agregados/6579/periodos/2021/variaveis/9324", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("localidades") != "N6[all]" {
			http.Error(w, "bad localidades", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"9324","resultados":[{"series":[
			{"localidade":{"id":"1100015","nome":"Alta Floresta D'Oeste - RO"},"serie":{"2021":"22516"}},
			{"localidade":{"id":"2611606","nome":"Recife - PE"},"serie":{"2021":"1661017"}},
			{"localidade":{"id":"2609600","nome":"Olinda - PE"},"serie":{"2021":"..."}}
		]}]}]`))
	})
	mux.HandleFunc("/v3/agregados/6579/periodos/2030/variaveis/9324", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not published", http.StatusInternalServerError)
	})
	mux.HandleFunc("/v3/malhas/estados/26", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "municipio", r.URL.Query().Get("intrarregiao"))
		w.Header().Set("Content-Type", "application/vnd.geo+json")
		w.Write([]byte(meshFixture))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

const meshFixture = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"codarea":"2611606"},
  "geometry":{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2],[0,0]]]}},
 {"type":"Feature","properties":{},
  "geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}
]}`

func TestMunicipalities(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, 5*time.Second, nil)

	got, err := c.Municipalities(context.Background(), "26")
	require.NoError(t, err)
	want := []model.Municipality{{Code: "2611606", Name: "Recife"}, {Code: "2609600", Name: "Olinda"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("municipalities mismatch (-want +got):\n%s", diff)
	}

	all, err := c.AllMunicipalities(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestPopulationFiltersByStatePrefix(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, 5*time.Second, nil)

	got, err := c.Population(context.Background(), 2021, "26")
	require.NoError(t, err)
	want := []model.PopulationRecord{
		{Year: 2021, Code: "2611606", Municipality: "Recife", Population: 1661017},
		{Year: 2021, Code: "2609600", Municipality: "Olinda", Population: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("population mismatch (-want +got):\n%s", diff)
	}
}

func TestPopulationHTTPError(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, 5*time.Second, nil)

	_, err := c.Population(context.Background(), 2030, "26")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 500")
}

func TestMunicipalBoundaries(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, 5*time.Second, nil)

	got, err := c.MunicipalBoundaries(context.Background(), "26")
	require.NoError(t, err)
	require.Len(t, got, 1, "features without codarea are skipped")
	require.Equal(t, "2611606", got[0].Code)
}

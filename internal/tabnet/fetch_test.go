package tabnet

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/states"
	"github.com/google/go-cmp/cmp"
)

// latin1Page is a TabNet response encoded the way the portal sends it.
var latin1Page = []byte("<html><body><pre>\n" +
	"\"Munic\xedpio de notifica\xe7\xe3o\";\"Semana 01\";\"Total\"\n" +
	"\"261300 S\xe3o Louren\xe7o da Mata\";\"2\";\"2\"\n" +
	"\"Total\";\"2\";\"2\"\n" +
	"&</pre></body></html>")

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL+"/cgi/tabcgi.exe", "sinannet/cnv/dengueb%s.def", "POST", "Mozilla/5.0", 5*time.Second, states.New())
	c.Now = func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestFetchReport(t *testing.T) {
	var gotQuery, gotLinha, gotArquivos, gotContentType string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		gotLinha = r.PostForm.Get("Linha")
		gotArquivos = r.PostForm.Get("Arquivos")

		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write(latin1Page)
	})

	rows, err := c.FetchReport(context.Background(), CasesByWeek("pe", 2022))
	if err != nil {
		t.Fatalf("FetchReport: %v", err)
	}

	if gotQuery != "sinannet/cnv/denguebpe.def" {
		t.Errorf("unexpected definition query %q", gotQuery)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("unexpected content type %q", gotContentType)
	}
	// Form values arrive as ISO-8859-1 bytes, not UTF-8.
	if gotLinha != "Munic\xedpio_de_notifica\xe7\xe3o" {
		t.Errorf("row dimension not Latin-1 encoded: %q", gotLinha)
	}
	if gotArquivos != "dengpe22.dbf" {
		t.Errorf("unexpected source file %q", gotArquivos)
	}

	want := []model.ReportRow{
		{"Município de notificação", "Semana 01", "Total"},
		{"Total", "2", "2"},
		{"261300 São Lourenço da Mata", "2", "2"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchReportGET(t *testing.T) {
	var method, coluna string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		coluna = r.URL.Query().Get("Coluna")
		w.Write([]byte("<pre>\"a\";\"b\"</pre>"))
	})
	c.Method = "GET"

	if _, err := c.FetchReport(context.Background(), CasesByWeek("PE", 2022)); err != nil {
		t.Fatalf("FetchReport: %v", err)
	}
	if method != http.MethodGet {
		t.Errorf("expected GET, got %s", method)
	}
	if coluna != "Semana_epidem._notifica\xe7\xe3o" {
		t.Errorf("unexpected column dimension %q", coluna)
	}
}

func TestFetchReportNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>Nenhum registro selecionado</p></body></html>"))
	})

	_, err := c.FetchReport(context.Background(), CasesByWeek("PE", 2022))
	if !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestFetchReportEmptyPre(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><pre>\n</pre></body></html>"))
	})

	rows, err := c.FetchReport(context.Background(), CasesByWeek("PE", 2022))
	if err != nil {
		t.Fatalf("empty table must not be an error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %v", rows)
	}
}

func TestFetchReportHTTPError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.FetchReport(context.Background(), CasesByWeek("PE", 2022))
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestFetchReportTransportError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {})
	c.BaseURL = "http://127.0.0.1:1/cgi/tabcgi.exe"

	_, err := c.FetchReport(context.Background(), CasesByWeek("PE", 2022))
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestFetchReportInvalidQueryMakesNoRequest(t *testing.T) {
	called := false
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		io.WriteString(w, "<pre></pre>")
	})

	_, err := c.FetchReport(context.Background(), CasesByWeek("XX", 2022))
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
	if called {
		t.Error("invalid query must not reach the server")
	}
}

func TestFetchText(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<pre>\"x\";\"1\"\n\"x\";\"1\"\n&</pre>"))
	})

	text, err := c.FetchText(context.Background(), CasesByWeek("PE", 2014))
	if err != nil {
		t.Fatalf("FetchText: %v", err)
	}
	if rows := ParseRaw(text); len(rows) != 2 {
		t.Errorf("expected raw dump to keep duplicate rows, got %v", rows)
	}
}

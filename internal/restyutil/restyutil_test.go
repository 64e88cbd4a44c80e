package restyutil

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAppliesOptionsAndLogs(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path == "/missing" {
			http.Error(w, "no such thing", http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := New(Options{BaseURL: srv.URL, UserAgent: "collector-test", Logger: log})

	res, err := client.R().Get("/ok")
	require.NoError(t, err)
	require.NoError(t, CheckStatus(res))
	require.Equal(t, "collector-test", gotUA)
	require.Contains(t, buf.String(), "request finished")

	res, err = client.R().Get("/missing")
	require.NoError(t, err)
	err = CheckStatus(res)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 404")
}

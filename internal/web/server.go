package web

import (
	"fmt"
	"net/http"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/states"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/store"
)

// Server serves the collected datasets as a read-only JSON API.
type Server struct {
	Store  *store.Store
	States *states.Table
	Addr   string
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/states", s.handleStates)
	mux.HandleFunc("/api/runs", s.handleRuns)
	mux.HandleFunc("/api/cases", s.handleCases)
	mux.HandleFunc("/api/population", s.handlePopulation)
	mux.HandleFunc("/api/idhm", s.handleIDHM)
	return mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	fmt.Printf("Serving at http://%s\n", s.Addr)
	return http.ListenAndServe(s.Addr, s.Handler())
}

package web

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const defaultRunLimit = 50

func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.States.All())
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid 'limit' parameter", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := s.Store.ListRuns(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, orEmpty(runs))
}

func (s *Server) handleCases(w http.ResponseWriter, r *http.Request) {
	state, ok := s.stateParam(w, r)
	if !ok {
		return
	}
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	records, err := s.Store.ReadCases(state, year, r.URL.Query().Get("municipality"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, orEmpty(records))
}

func (s *Server) handlePopulation(w http.ResponseWriter, r *http.Request) {
	state, ok := s.stateParam(w, r)
	if !ok {
		return
	}
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	records, err := s.Store.ReadPopulation(state, year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, orEmpty(records))
}

func (s *Server) handleIDHM(w http.ResponseWriter, r *http.Request) {
	state, ok := s.stateParam(w, r)
	if !ok {
		return
	}

	records, err := s.Store.ReadIDHM(state)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, orEmpty(records))
}

// stateParam resolves the required "state" parameter to its abbreviation.
func (s *Server) stateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	v := r.URL.Query().Get("state")
	if v == "" {
		http.Error(w, "missing 'state' parameter", http.StatusBadRequest)
		return "", false
	}
	st, err := s.States.Resolve(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return st.Abbreviation, true
}

// yearParam reads the optional "year" parameter; absent means 0 (every year).
func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("year")
	if v == "" {
		return 0, true
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		http.Error(w, "invalid 'year' parameter", http.StatusBadRequest)
		return 0, false
	}
	return year, true
}

// orEmpty makes a nil result encode as [] rather than null.
func orEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	// Wildcard CORS: this is a local analysis tool, not a public API.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_ = json.NewEncoder(w).Encode(v)
}

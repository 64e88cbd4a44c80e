// Package states holds the read-only table of the 27 Brazilian federative units.
package states

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/textnorm"
)

// ErrUnknownState is returned when an input matches neither an abbreviation nor a name.
var ErrUnknownState = errors.New("unknown state")

var all = []model.State{
	{Abbreviation: "AC", Name: "Acre", Code: "12"},
	{Abbreviation: "AL", Name: "Alagoas", Code: "27"},
	{Abbreviation: "AP", Name: "Amapá", Code: "16"},
	{Abbreviation: "AM", Name: "Amazonas", Code: "13"},
	{Abbreviation: "BA", Name: "Bahia", Code: "29"},
	{Abbreviation: "CE", Name: "Ceará", Code: "23"},
	{Abbreviation: "DF", Name: "Distrito Federal", Code: "53"},
	{Abbreviation: "ES", Name: "Espírito Santo", Code: "32"},
	{Abbreviation: "GO", Name: "Goiás", Code: "52"},
	{Abbreviation: "MA", Name: "Maranhão", Code: "21"},
	{Abbreviation: "MT", Name: "Mato Grosso", Code: "51"},
	{Abbreviation: "MS", Name: "Mato Grosso do Sul", Code: "50"},
	{Abbreviation: "MG", Name: "Minas Gerais", Code: "31"},
	{Abbreviation: "PA", Name: "Pará", Code: "15"},
	{Abbreviation: "PB", Name: "Paraíba", Code: "25"},
	{Abbreviation: "PR", Name: "Paraná", Code: "41"},
	{Abbreviation: "PE", Name: "Pernambuco", Code: "26"},
	{Abbreviation: "PI", Name: "Piauí", Code: "22"},
	{Abbreviation: "RJ", Name: "Rio de Janeiro", Code: "33"},
	{Abbreviation: "RN", Name: "Rio Grande do Norte", Code: "24"},
	{Abbreviation: "RS", Name: "Rio Grande do Sul", Code: "43"},
	{Abbreviation: "RO", Name: "Rondônia", Code: "11"},
	{Abbreviation: "RR", Name: "Roraima", Code: "14"},
	{Abbreviation: "SC", Name: "Santa Catarina", Code: "42"},
	{Abbreviation: "SP", Name: "São Paulo", Code: "35"},
	{Abbreviation: "SE", Name: "Sergipe", Code: "28"},
	{Abbreviation: "TO", Name: "Tocantins", Code: "17"},
}

// Table resolves federative units by abbreviation or name. Build it once with
// New and pass it to whatever needs it; it is never mutated.
type Table struct {
	byAbbr map[string]model.State
	byName map[string]model.State
}

// New builds the table of all 27 units.
func New() *Table {
	t := &Table{
		byAbbr: make(map[string]model.State, len(all)),
		byName: make(map[string]model.State, len(all)),
	}
	for _, s := range all {
		t.byAbbr[s.Abbreviation] = s
		t.byName[textnorm.Key(s.Name)] = s
	}
	return t
}

// Resolve accepts "pe", "PE", "Pernambuco" or "sao paulo" and returns the unit.
func (t *Table) Resolve(input string) (model.State, error) {
	in := strings.TrimSpace(input)
	if s, ok := t.byAbbr[strings.ToUpper(in)]; ok {
		return s, nil
	}
	if s, ok := t.byName[textnorm.Key(in)]; ok {
		return s, nil
	}
	return model.State{}, fmt.Errorf("%w %q: use the full name or the abbreviation (e.g. 'PE' or 'Pernambuco')", ErrUnknownState, input)
}

// Contains reports whether abbr is one of the 27 abbreviations.
func (t *Table) Contains(abbr string) bool {
	_, ok := t.byAbbr[strings.ToUpper(abbr)]
	return ok
}

// All returns the units sorted by abbreviation.
func (t *Table) All() []model.State {
	out := make([]model.State, 0, len(t.byAbbr))
	for _, s := range t.byAbbr {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Abbreviation < out[j].Abbreviation })
	return out
}

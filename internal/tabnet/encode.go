package tabnet

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"golang.org/x/text/encoding/charmap"
)

// Latin1Escape percent-encodes s the way TabNet forms expect: each rune is
// first converted to its ISO-8859-1 byte, then escaped with '+' for spaces.
// UTF-8 bytes would be read as two Latin-1 characters on the server side and
// the query silently comes back empty.
func Latin1Escape(s string) (string, error) {
	b, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return "", fmt.Errorf("encoding %q as ISO-8859-1: %w", s, err)
	}
	return url.QueryEscape(b), nil
}

// EncodeForm renders q as an application/x-www-form-urlencoded body. Field
// order is fixed: Linha, Coluna, Incremento, Arquivos, the extra filters in
// name order, then formato=prn and mostre=Mostra.
func EncodeForm(q model.QuerySpec) (string, error) {
	increment := q.Increment
	if increment == "" {
		increment = DefaultIncrement
	}

	pairs := [][2]string{
		{"Linha", q.RowDimension},
		{"Coluna", q.ColumnDimension},
		{"Incremento", increment},
		{"Arquivos", q.SourceFileName},
	}

	names := make([]string, 0, len(q.ExtraFilters))
	for name := range q.ExtraFilters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pairs = append(pairs, [2]string{name, q.ExtraFilters[name]})
	}

	pairs = append(pairs, [2]string{"formato", "prn"}, [2]string{"mostre", "Mostra"})

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		k, err := Latin1Escape(p[0])
		if err != nil {
			return "", err
		}
		v, err := Latin1Escape(p[1])
		if err != nil {
			return "", err
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, "&"), nil
}

package population

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// LocalRow is a population figure read from a downloaded table, before it
// is joined to an IBGE municipality code.
type LocalRow struct {
	Municipality string
	Population   int
}

var ufSuffix = regexp.MustCompile(`\s*\(.*\)`)

// ReadCensus parses the 2022 census table: ';' separated, five preamble
// lines, columns municipality "Name (UF)", declaration form, population.
// Only the "Total" declaration rows of uf are kept.
func ReadCensus(r io.Reader, uf string) ([]LocalRow, error) {
	df, err := readTable(r, 5, ';')
	if err != nil {
		return nil, err
	}
	if df.Ncol() != 3 {
		return nil, fmt.Errorf("census table: expected 3 columns, found %d", df.Ncol())
	}
	if err := df.SetNames("Municipio", "Forma_Declaracao", "Populacao"); err != nil {
		return nil, err
	}

	marker := "(" + strings.ToUpper(uf) + ")"
	df = df.Filter(dataframe.F{
		Colname:    "Forma_Declaracao",
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool { return strings.TrimSpace(el.String()) == "Total" },
	}).Filter(dataframe.F{
		Colname:    "Municipio",
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool { return strings.Contains(el.String(), marker) },
	})
	if df.Err != nil {
		return nil, df.Err
	}

	names := df.Col("Municipio").Records()
	pops := df.Col("Populacao").Records()
	rows := make([]LocalRow, 0, len(names))
	for i := range names {
		rows = append(rows, LocalRow{
			Municipality: strings.TrimSpace(ufSuffix.ReplaceAllString(names[i], "")),
			Population:   parsePopulation(pops[i]),
		})
	}
	return rows, nil
}

// ReadEstimates parses the 2023 estimates table: ',' separated, one title
// line, exactly three columns UF "(XX)", municipality, population with
// thousands separators.
func ReadEstimates(r io.Reader, uf string) ([]LocalRow, error) {
	df, err := readTable(r, 1, ',')
	if err != nil {
		return nil, err
	}
	if df.Ncol() != 3 {
		return nil, fmt.Errorf("estimates table: expected 3 columns, found %d", df.Ncol())
	}
	if err := df.SetNames("UF", "Municipio", "Populacao"); err != nil {
		return nil, err
	}

	uf = strings.ToUpper(uf)
	df = df.Filter(dataframe.F{
		Colname:    "UF",
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool { return strings.Trim(strings.TrimSpace(el.String()), "()") == uf },
	})
	if df.Err != nil {
		return nil, df.Err
	}
	if df.Nrow() == 0 {
		return nil, fmt.Errorf("%w: state %s not present in estimates table", ErrNoData, uf)
	}

	names := df.Col("Municipio").Records()
	pops := df.Col("Populacao").Records()
	rows := make([]LocalRow, 0, len(names))
	for i := range names {
		rows = append(rows, LocalRow{
			Municipality: strings.TrimSpace(names[i]),
			Population:   parsePopulation(strings.ReplaceAll(pops[i], ",", "")),
		})
	}
	return rows, nil
}

// readTable skips the preamble and any trailing note lines whose field count
// differs from the header, then loads the rest as an all-string DataFrame.
func readTable(r io.Reader, skip int, delim rune) (dataframe.DataFrame, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		b      strings.Builder
		fields = -1
		line   int
	)
	for sc.Scan() {
		line++
		if line <= skip {
			continue
		}
		text := strings.TrimPrefix(sc.Text(), "\ufeff")
		if strings.TrimSpace(text) == "" {
			continue
		}
		n := countFields(text, delim)
		if fields < 0 {
			fields = n
		} else if n != fields {
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("reading table: %w", err)
	}
	if fields < 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: table is empty", ErrNoData)
	}

	df := dataframe.ReadCSV(strings.NewReader(b.String()),
		dataframe.WithDelimiter(delim),
		dataframe.DetectTypes(false),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parsing table: %w", df.Err)
	}
	return df, nil
}

// countFields counts delimiter-separated fields, ignoring delimiters inside
// double quotes.
func countFields(line string, delim rune) int {
	n, quoted := 1, false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == delim && !quoted:
			n++
		}
	}
	return n
}

// parsePopulation reads an integer cell; anything unparseable counts as 0.
func parsePopulation(v string) int {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return 0
}

package tabnet

import (
	"strings"

	"github.com/OTGSJ/DiseaseOutbreakPredictor/internal/model"
	"github.com/PuerkitoBio/goquery"
)

// TotalLabel marks the aggregate row and column of a TabNet table.
const TotalLabel = "Total"

// continuation is the trailing join character TabNet leaves on the last line.
const continuation = "&"

// ExtractReportText returns the text of the single <pre> block in a TabNet
// response page. ok is false when the page has no <pre>.
func ExtractReportText(doc *goquery.Document) (text string, ok bool) {
	pre := doc.Find("pre").First()
	if pre.Length() == 0 {
		return "", false
	}
	return pre.Text(), true
}

// SplitLines trims the block, splits it into lines and removes the
// continuation artifact from the last one. A last line that was only the
// artifact is dropped.
func SplitLines(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}

	last := len(lines) - 1
	if strings.HasSuffix(lines[last], continuation) {
		lines[last] = strings.TrimSuffix(lines[last], continuation)
		if strings.TrimSpace(lines[last]) == "" {
			lines = lines[:last]
		}
	}
	return lines
}

// SplitCells splits a line on ';' and strips surrounding quotes from each cell.
func SplitCells(line string) model.ReportRow {
	cells := strings.Split(line, ";")
	row := make(model.ReportRow, len(cells))
	for i, c := range cells {
		row[i] = strings.Trim(c, `"`)
	}
	return row
}

// DiscardOnCellCountMismatch reports whether row must be dropped because its
// width differs from the expected one. TabNet emits the odd malformed line
// (notes, footers, wrapped labels); those are not errors.
func DiscardOnCellCountMismatch(row model.ReportRow, expected int) bool {
	return len(row) != expected
}

// CoercePlaceholderToZero turns TabNet's empty and "-" cells into "0".
func CoercePlaceholderToZero(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == "-" {
		return "0"
	}
	return v
}

// Table is a parsed report split into its header, its aggregate row and the
// remaining rows in encounter order.
type Table struct {
	Header model.ReportRow
	Total  model.ReportRow
	Rows   []model.ReportRow
}

// Combined returns header first, total second, then every other row.
func (t Table) Combined() []model.ReportRow {
	out := make([]model.ReportRow, 0, len(t.Rows)+2)
	if t.Header != nil {
		out = append(out, t.Header)
	}
	if t.Total != nil {
		out = append(out, t.Total)
	}
	return append(out, t.Rows...)
}

// Len is the number of rows Combined would return.
func (t Table) Len() int {
	n := len(t.Rows)
	if t.Header != nil {
		n++
	}
	if t.Total != nil {
		n++
	}
	return n
}

// Parse turns the <pre> text into a Table.
//
// columns is the expected row width; zero takes the width of the first line.
// headerLabel identifies the header by its first cell; empty makes the first
// accepted row the header. Identical rows collapse to their first occurrence,
// and only the first header and the first total row are kept.
func Parse(text string, columns int, headerLabel string) Table {
	var t Table
	seen := make(map[string]bool)

	for i, line := range SplitLines(text) {
		row := SplitCells(line)
		if columns == 0 && i == 0 {
			columns = len(row)
		}
		if DiscardOnCellCountMismatch(row, columns) {
			continue
		}

		key := strings.Join(row, "\x00")
		if seen[key] {
			continue
		}
		seen[key] = true

		isHeader := (headerLabel != "" && row.Label() == headerLabel) ||
			(headerLabel == "" && len(seen) == 1)

		switch {
		case isHeader:
			if t.Header == nil {
				t.Header = row
			}
		case row.Label() == TotalLabel:
			if t.Total == nil {
				t.Total = row
			}
		default:
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}

// ParseRaw splits every line into cells with no width check, no dedup and no
// reordering. It backs the raw table dump.
func ParseRaw(text string) []model.ReportRow {
	lines := SplitLines(text)
	rows := make([]model.ReportRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, SplitCells(l))
	}
	return rows
}

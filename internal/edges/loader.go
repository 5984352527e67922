package edges

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Record is one row of an edge list: a directed relation From -> To with
// an optional relation type and free-form tags.
type Record struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
	Tags string `json:"tags"`
}

// ValidationError reports required columns absent from an uploaded table.
type ValidationError struct {
	Missing []string
	Found   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required columns: %s (found: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// LoadCSV parses an edge table from CSV. The header must contain From and
// To; Type and Tags are optional. Rows whose trimmed From or To is empty
// are dropped.
func LoadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromRows(rows)
}

// LoadExcel parses an edge table from the first sheet of an .xlsx file,
// same header contract as LoadCSV.
func LoadExcel(r io.Reader) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return fromRows(rows)
}

// LoadFile loads a bundled edge table, choosing the parser by extension.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadExcel(f)
	default:
		return LoadCSV(f)
	}
}

func fromRows(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("table is empty")
	}

	header := rows[0]
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, required := range []string{"From", "To"} {
		if _, ok := idx[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		found := make([]string, 0, len(header))
		for _, name := range header {
			found = append(found, strings.TrimSpace(name))
		}
		return nil, &ValidationError{Missing: missing, Found: found}
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := Record{
			From: cell(row, "From"),
			To:   cell(row, "To"),
			Type: cell(row, "Type"),
			Tags: cell(row, "Tags"),
		}
		if rec.From == "" || rec.To == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

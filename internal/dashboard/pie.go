package dashboard

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PieSlice is one category's share of the uploaded table's total.
type PieSlice struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Share    float64 `json:"share"`
}

// LoadPie parses a CSV with category and value columns and computes each
// slice's share. Malformed input (missing columns, non-numeric values,
// zero total) fails before anything is rendered.
func LoadPie(r io.Reader) ([]PieSlice, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("table is empty")
	}

	header := rows[0]
	catCol, valCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "category":
			catCol = i
		case "value":
			valCol = i
		}
	}
	var missing []string
	if catCol < 0 {
		missing = append(missing, "category")
	}
	if valCol < 0 {
		missing = append(missing, "value")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var slices []PieSlice
	var total float64
	for i, row := range rows[1:] {
		if catCol >= len(row) || valCol >= len(row) {
			return nil, fmt.Errorf("row %d: too few columns", i+2)
		}
		category := strings.TrimSpace(row[catCol])
		value, err := strconv.ParseFloat(strings.TrimSpace(row[valCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: value %q is not numeric", i+2, row[valCol])
		}
		if value < 0 {
			return nil, fmt.Errorf("row %d: value %f is negative", i+2, value)
		}
		slices = append(slices, PieSlice{Category: category, Value: value})
		total += value
	}

	if total == 0 {
		return nil, fmt.Errorf("total value is zero, nothing to chart")
	}
	for i := range slices {
		slices[i].Share = slices[i].Value / total
	}
	return slices, nil
}

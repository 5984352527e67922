package edges

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Filter narrows an edge table the way the network page sidebar does:
// relation-type membership, case-insensitive tag substring, and a cap on
// the number of edges rendered.
type Filter struct {
	Types        []string `json:"types"`
	TagSubstring string   `json:"tagSubstring"`
	MaxEdges     int      `json:"maxEdges"`
}

// Apply is pure: the input slice is never modified, and applying the same
// filter twice yields the same output.
func Apply(records []Record, f Filter) []Record {
	out := make([]Record, 0, len(records))

	typeSet := make(map[string]struct{}, len(f.Types))
	for _, t := range f.Types {
		typeSet[t] = struct{}{}
	}
	tag := strings.ToLower(strings.TrimSpace(f.TagSubstring))

	for _, rec := range records {
		if len(typeSet) > 0 {
			if _, ok := typeSet[rec.Type]; !ok {
				continue
			}
		}
		if tag != "" && !strings.Contains(strings.ToLower(rec.Tags), tag) {
			continue
		}
		out = append(out, rec)
		if f.MaxEdges > 0 && len(out) == f.MaxEdges {
			break
		}
	}
	return out
}

// Types returns the distinct non-empty relation types present, sorted.
func Types(records []Record) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		if rec.Type != "" {
			seen[rec.Type] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ExportCSV writes the table back out with the canonical header.
func ExportCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"From", "To", "Type", "Tags"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write([]string{rec.From, rec.To, rec.Type, rec.Tags}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

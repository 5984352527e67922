package edges

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func testRecords() []Record {
	return []Record{
		{From: "a", To: "b", Type: "email", Tags: "work"},
		{From: "b", To: "c", Type: "chat", Tags: "Work,urgent"},
		{From: "c", To: "d", Type: "email", Tags: "social"},
		{From: "d", To: "a", Type: "call", Tags: ""},
	}
}

func TestApply_TypeMembership(t *testing.T) {
	got := Apply(testRecords(), Filter{Types: []string{"email"}})
	if len(got) != 2 {
		t.Fatalf("expected 2 email edges, got %d", len(got))
	}
	for _, rec := range got {
		if rec.Type != "email" {
			t.Fatalf("unexpected type %q", rec.Type)
		}
	}
}

func TestApply_TagSubstringCaseInsensitive(t *testing.T) {
	got := Apply(testRecords(), Filter{TagSubstring: "work"})
	if len(got) != 2 {
		t.Fatalf("expected 2 edges tagged work (any case), got %d", len(got))
	}
}

func TestApply_MaxEdges(t *testing.T) {
	got := Apply(testRecords(), Filter{MaxEdges: 2})
	if len(got) != 2 {
		t.Fatalf("expected cap of 2, got %d", len(got))
	}
	// First N in input order, like the source page's head().
	if got[0].From != "a" || got[1].From != "b" {
		t.Fatalf("expected first two rows, got %+v", got)
	}
}

func TestApply_EmptyFilterKeepsAll(t *testing.T) {
	in := testRecords()
	got := Apply(in, Filter{})
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("empty filter should keep all rows:\n got %+v\nwant %+v", got, in)
	}
}

func TestApply_Idempotent(t *testing.T) {
	f := Filter{Types: []string{"email", "chat"}, TagSubstring: "work", MaxEdges: 10}
	once := Apply(testRecords(), f)
	twice := Apply(once, f)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("re-filtering with identical parameters changed output:\n once %+v\ntwice %+v", once, twice)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := testRecords()
	want := testRecords()
	Apply(in, Filter{Types: []string{"email"}})
	if !reflect.DeepEqual(in, want) {
		t.Fatal("Apply mutated its input")
	}
}

func TestTypes(t *testing.T) {
	got := Types(testRecords())
	want := []string{"call", "chat", "email"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExportCSVRoundTrip(t *testing.T) {
	in := testRecords()

	var buf bytes.Buffer
	if err := ExportCSV(&buf, in); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "From,To,Type,Tags\n") {
		t.Fatalf("expected canonical header, got %q", buf.String())
	}

	back, err := LoadCSV(&buf)
	if err != nil {
		t.Fatalf("LoadCSV of export: %v", err)
	}
	if !reflect.DeepEqual(back, in) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, in)
	}
}

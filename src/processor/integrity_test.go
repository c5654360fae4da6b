package processor

import (
	"context"
	"reflect"
	"testing"

	"github.com/go-gota/gota/dataframe"
)

func TestCheckIntegrityCounts(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"AIRLINE", "DISTANCE", "DEPARTURE_DELAY"},
		{"AA", "300", "12"},
		{"AA", "300", "12"},  // exact duplicate of row 1
		{"UA", "-5", "-3"},   // negative distance and an early departure
		{"DL", "200", "-1"},  // early departure only
	})

	report := CheckIntegrity(df)
	if report.Rows != 4 {
		t.Errorf("Rows = %d, want 4", report.Rows)
	}
	if report.DuplicateRows != 1 {
		t.Errorf("DuplicateRows = %d, want 1", report.DuplicateRows)
	}
	if report.NegativeDistance != 1 {
		t.Errorf("NegativeDistance = %d, want 1", report.NegativeDistance)
	}
	// Early departures are a signal for review, not an error.
	if report.NegativeDelay != 2 {
		t.Errorf("NegativeDelay = %d, want 2", report.NegativeDelay)
	}
	if report.FlaggedRows != 0 {
		t.Errorf("FlaggedRows = %d, want 0", report.FlaggedRows)
	}
}

func TestCheckIntegrityTripleDuplicate(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"AIRLINE", "DEPARTURE_DELAY"},
		{"AA", "1"},
		{"AA", "1"},
		{"AA", "1"},
	})
	if got := CheckIntegrity(df).DuplicateRows; got != 2 {
		t.Errorf("DuplicateRows = %d, want 2 (rows beyond the first)", got)
	}
}

func TestIntegrityCheckerIsReadOnly(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"AIRLINE", "DISTANCE", "DEPARTURE_DELAY"},
		{"AA", "-1", "5"},
		{"AA", "-1", "5"},
	})
	before := df.Records()

	checker := &IntegrityChecker{}
	out, err := checker.Apply(context.Background(), df)
	if err != nil {
		t.Fatalf("check: %v", err)
	}

	if !reflect.DeepEqual(out.Records(), before) {
		t.Error("integrity checker changed the table it was handed")
	}
	if !reflect.DeepEqual(df.Records(), before) {
		t.Error("integrity checker mutated its input")
	}
	if checker.Report.DuplicateRows != 1 || checker.Report.NegativeDistance != 2 {
		t.Errorf("unexpected report: %+v", checker.Report)
	}
}

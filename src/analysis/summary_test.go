package analysis

import (
	"math"
	"testing"

	"FlightDelayEDA/src/datasource/file"
	"FlightDelayEDA/src/processor"

	"github.com/go-gota/gota/dataframe"
)

// featuredFrame is a minimal cleaned+featured table: the aggregator only
// reads the public column names, so it can be built directly.
func featuredFrame() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"AIRLINE", "ORIGIN_AIRPORT", processor.ColScheduledHour, processor.ColIsWeekend, "DEPARTURE_DELAY", processor.ColDelayCapped},
		{"AA", "LAX", "9", "false", "10", "10"},
		{"AA", "LAX", "9", "false", "20", "20"},
		{"UA", "SFO", "17", "true", "40", "40"},
		{"UA", "ZZZ", "17", "true", "60", "60"},
	})
}

func TestByAirline(t *testing.T) {
	names := map[string]string{"AA": "American Airlines Inc."}
	agg, err := ByAirline(featuredFrame(), names)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if agg.Nrow() != 2 {
		t.Fatalf("groups = %d, want 2", agg.Nrow())
	}

	// Sorted by code: AA first.
	meanCol := processor.ColDelayCapped + "_MEAN"
	if got := agg.Col("AIRLINE").Elem(0).String(); got != "AA" {
		t.Fatalf("first group = %s, want AA", got)
	}
	if got := agg.Col(meanCol).Elem(0).Float(); got != 15 {
		t.Errorf("AA mean = %v, want 15", got)
	}
	if got := agg.Col(meanCol).Elem(1).Float(); got != 50 {
		t.Errorf("UA mean = %v, want 50", got)
	}

	// Display name attached where the mapping has one, bare code kept
	// where it does not.
	if got := agg.Col("AIRLINE_NAME").Elem(0).String(); got != "American Airlines Inc." {
		t.Errorf("AA name = %q", got)
	}
	if got := agg.Col("AIRLINE_NAME").Elem(1).String(); got != "UA" {
		t.Errorf("UA fallback = %q", got)
	}
}

func TestByHourAndWeekend(t *testing.T) {
	byHour, err := ByHour(featuredFrame())
	if err != nil {
		t.Fatalf("by hour: %v", err)
	}
	if byHour.Nrow() != 2 {
		t.Fatalf("hour groups = %d, want 2", byHour.Nrow())
	}
	// Hour order.
	if h, _ := byHour.Col(processor.ColScheduledHour).Elem(0).Int(); h != 9 {
		t.Errorf("first hour = %d, want 9", h)
	}

	byWeekend, err := ByWeekend(featuredFrame())
	if err != nil {
		t.Fatalf("by weekend: %v", err)
	}
	if byWeekend.Nrow() != 2 {
		t.Errorf("weekend groups = %d, want 2", byWeekend.Nrow())
	}
}

func TestByOriginAirportSkipsUnmatchedCodes(t *testing.T) {
	airports := map[string]file.AirportRecord{
		"LAX": {Code: "LAX", Name: "Los Angeles International", Latitude: 33.94, Longitude: -118.40},
		"SFO": {Code: "SFO", Name: "San Francisco International", Latitude: 37.62, Longitude: -122.38},
		// no ZZZ on purpose
	}
	agg, err := ByOriginAirport(featuredFrame(), airports)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if agg.Nrow() != 2 {
		t.Fatalf("rows = %d, want 2 (unmatched code silently skipped)", agg.Nrow())
	}
	if got := agg.Col("AIRPORT").Elem(0).String(); got != "Los Angeles International" {
		t.Errorf("first airport = %q", got)
	}
}

func TestDescribeDelay(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"DEPARTURE_DELAY"},
		{"0"}, {"10"}, {"20"}, {"30"}, {"NaN"},
	})
	stats := DescribeDelay(df, "DEPARTURE_DELAY")
	if stats.Count != 4 {
		t.Errorf("Count = %d, want 4 (nulls ignored)", stats.Count)
	}
	if stats.Mean != 15 {
		t.Errorf("Mean = %v, want 15", stats.Mean)
	}
	// Population stddev of {0,10,20,30} is sqrt(125).
	if want := math.Sqrt(125); math.Abs(stats.StdDev-want) > 1e-9 {
		t.Errorf("StdDev = %v, want %v", stats.StdDev, want)
	}
	if stats.Min != 0 || stats.Max != 30 {
		t.Errorf("Min/Max = %v/%v", stats.Min, stats.Max)
	}

	if got := DescribeDelay(df, "NO_SUCH_COLUMN"); got.Count != 0 {
		t.Errorf("missing column should describe as empty, got %+v", got)
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(5819079); got != "5,819,079" {
		t.Errorf("FormatCount = %q", got)
	}
	if got := FormatCount(12); got != "12" {
		t.Errorf("FormatCount = %q", got)
	}
}

// features.go
package processor

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"FlightDelayEDA/src/pipeline"
	"FlightDelayEDA/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// Derived column names. Downstream consumers read these, so they are part
// of the public contract.
const (
	ColScheduledHour = "SCHEDULED_HOUR"
	ColIsWeekend     = "IS_WEEKEND"
	ColSeverity      = "DELAY_SEVERITY"
	ColDelayCapped   = "DEPARTURE_DELAY_CAPPED"
)

// FeatureDeriver adds the derived columns to a cleaned table: scheduled
// hour, weekend flag, delay severity bucket and the capped delay. All four
// derivations are pure functions of the input snapshot.
//
// Rows with a malformed scheduled departure or date are flagged NA in the
// derived column and skipped, never fatal; the integrity checker reports
// how many rows were flagged this way.
type FeatureDeriver struct {
	SeverityMinor float64 // delay <= minor  -> level 0
	SeverityMajor float64 // delay <= major  -> level 1, beyond -> level 2
	CapSigma      float64 // ceiling at mean + sigma*stddev
}

// NewFeatureDeriver returns a deriver with the conventional 5/45 minute
// severity boundaries and a 3-sigma cap.
func NewFeatureDeriver() *FeatureDeriver {
	return &FeatureDeriver{SeverityMinor: 5, SeverityMajor: 45, CapSigma: 3}
}

func (f *FeatureDeriver) Name() string { return "features" }

func (f *FeatureDeriver) Apply(ctx context.Context, df dataframe.DataFrame) (dataframe.DataFrame, error) {
	for _, col := range []string{"SCHEDULED_DEPARTURE", "DEPARTURE_DELAY", "DATE"} {
		if !utils.HasColumn(df, col) {
			return df, &pipeline.SchemaError{Column: col, Stage: f.Name()}
		}
	}

	cur := df.Mutate(scheduledHours(df))
	cur = cur.Mutate(weekendFlags(df))
	cur = cur.Mutate(severityBuckets(df, f.SeverityMinor, f.SeverityMajor))
	if cur.Err != nil {
		return df, cur.Err
	}
	return CapDelay(cur, f.CapSigma)
}

// HourFromHHMM extracts the hour from a scheduled-departure integer encoded
// as HHMM: the value is left-padded to 4 digits and the first two are the
// hour, so 5 -> "0005" -> 0 and 1730 -> 17. Values whose padded form yields
// no hour in [0,23], such as 9999 or 2400, are rejected.
func HourFromHHMM(v int) (int, error) {
	if v < 0 || v > 9999 {
		return 0, &pipeline.ValueError{
			Column: "SCHEDULED_DEPARTURE",
			Value:  strconv.Itoa(v),
			Reason: "is not a 4-digit HHMM time",
		}
	}
	padded := fmt.Sprintf("%04d", v)
	hour, err := strconv.Atoi(padded[:2])
	if err != nil || hour > 23 {
		return 0, &pipeline.ValueError{
			Column: "SCHEDULED_DEPARTURE",
			Value:  padded,
			Reason: "yields no hour in [0,23]",
		}
	}
	return hour, nil
}

func scheduledHours(df dataframe.DataFrame) series.Series {
	sched := df.Col("SCHEDULED_DEPARTURE")
	hours := make([]string, df.Nrow())
	for i := range hours {
		el := sched.Elem(i)
		v := el.Float()
		if el.IsNA() || v != math.Trunc(v) {
			hours[i] = "NaN"
			continue
		}
		hour, err := HourFromHHMM(int(v))
		if err != nil {
			hours[i] = "NaN"
			continue
		}
		hours[i] = strconv.Itoa(hour)
	}
	return series.New(hours, series.Int, ColScheduledHour)
}

// weekendFlags derives the weekend flag from the DATE column: true iff the
// ISO day-of-week (Monday=0) is 5 or 6.
func weekendFlags(df dataframe.DataFrame) series.Series {
	dates := df.Col("DATE")
	flags := make([]string, df.Nrow())
	for i := range flags {
		el := dates.Elem(i)
		if el.IsNA() {
			flags[i] = "NaN"
			continue
		}
		t, err := time.Parse("2006-01-02", el.String())
		if err != nil {
			flags[i] = "NaN"
			continue
		}
		isoDay := (int(t.Weekday()) + 6) % 7
		flags[i] = strconv.FormatBool(isoDay == 5 || isoDay == 6)
	}
	return series.New(flags, series.Bool, ColIsWeekend)
}

// SeverityLevel classifies a departure delay: 0 for delay <= minor, 1 for
// minor < delay <= major, 2 beyond. Boundary values belong to the lower
// level.
func SeverityLevel(delay, minor, major float64) int {
	switch {
	case delay <= minor:
		return 0
	case delay <= major:
		return 1
	default:
		return 2
	}
}

func severityBuckets(df dataframe.DataFrame, minor, major float64) series.Series {
	delays := df.Col("DEPARTURE_DELAY")
	levels := make([]string, df.Nrow())
	for i := range levels {
		el := delays.Elem(i)
		if el.IsNA() {
			levels[i] = "NaN"
			continue
		}
		levels[i] = strconv.Itoa(SeverityLevel(el.Float(), minor, major))
	}
	return series.New(levels, series.Int, ColSeverity)
}

// CapDelay adds DEPARTURE_DELAY_CAPPED = min(delay, mean + sigma*stddev),
// with mean and population stddev recomputed over the DEPARTURE_DELAY
// column of this snapshot on every invocation.
//
// Capping is not idempotent: a second pass recomputes mean and stddev on
// the already-narrowed distribution, so the ceiling moves and rows sitting
// at the old ceiling get capped again. Cap exactly once per snapshot.
func CapDelay(df dataframe.DataFrame, sigma float64) (dataframe.DataFrame, error) {
	if !utils.HasColumn(df, "DEPARTURE_DELAY") {
		return df, &pipeline.SchemaError{Column: "DEPARTURE_DELAY", Stage: "features"}
	}

	raw := df.Col("DEPARTURE_DELAY").Float()
	clean := make([]float64, 0, len(raw))
	for _, v := range raw {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return df.Mutate(series.New(raw, series.Float, ColDelayCapped)), nil
	}

	mean, std := stat.PopMeanStdDev(clean, nil)
	ceiling := mean + sigma*std

	capped := make([]float64, len(raw))
	for i, v := range raw {
		if math.IsNaN(v) || v <= ceiling {
			capped[i] = v
		} else {
			capped[i] = ceiling
		}
	}
	out := df.Mutate(series.New(capped, series.Float, ColDelayCapped))
	if out.Err != nil {
		return df, out.Err
	}
	return out, nil
}

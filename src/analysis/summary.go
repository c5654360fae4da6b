// summary.go
package analysis

import (
	"math"
	"sort"
	"strconv"

	"FlightDelayEDA/src/datasource/file"
	"FlightDelayEDA/src/processor"
	"FlightDelayEDA/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
)

// DelayStats is the overall shape of a delay column.
type DelayStats struct {
	Count  int
	Mean   float64
	StdDev float64 // population
	Min    float64
	Max    float64
	Median float64
	P95    float64
}

// DescribeDelay summarizes the named column, ignoring nulls.
func DescribeDelay(df dataframe.DataFrame, col string) DelayStats {
	var stats DelayStats
	if !utils.IsNumeric(df, col) {
		return stats
	}
	vals := make([]float64, 0, df.Nrow())
	for _, v := range df.Col(col).Float() {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return stats
	}
	sort.Float64s(vals)

	mean, std := stat.PopMeanStdDev(vals, nil)
	stats.Count = len(vals)
	stats.Mean = mean
	stats.StdDev = std
	stats.Min = vals[0]
	stats.Max = vals[len(vals)-1]
	stats.Median = stat.Quantile(0.5, stat.Empirical, vals, nil)
	stats.P95 = stat.Quantile(0.95, stat.Empirical, vals, nil)
	return stats
}

// MeanDelayBy groups the table on key and returns mean and count of the
// capped delay per group. Group order follows gota's map iteration; callers
// that need a stable order sort afterwards.
func MeanDelayBy(df dataframe.DataFrame, key string) (dataframe.DataFrame, error) {
	grouped := df.GroupBy(key)
	if grouped.Err != nil {
		return dataframe.DataFrame{}, grouped.Err
	}
	agg := grouped.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_MEAN, dataframe.Aggregation_COUNT},
		[]string{processor.ColDelayCapped, processor.ColDelayCapped},
	)
	if agg.Err != nil {
		return dataframe.DataFrame{}, agg.Err
	}
	return agg, nil
}

// ByAirline is mean capped delay per airline code, with display names
// attached when the optional airline mapping is available.
func ByAirline(df dataframe.DataFrame, names map[string]string) (dataframe.DataFrame, error) {
	agg, err := MeanDelayBy(df, "AIRLINE")
	if err != nil {
		return agg, err
	}
	agg = agg.Arrange(dataframe.Sort("AIRLINE"))
	if agg.Err != nil {
		return dataframe.DataFrame{}, agg.Err
	}
	if len(names) == 0 {
		return agg, nil
	}
	codes := agg.Col("AIRLINE")
	labels := make([]string, agg.Nrow())
	for i := range labels {
		code := codes.Elem(i).String()
		if label, ok := names[code]; ok {
			labels[i] = label
		} else {
			labels[i] = code // unmatched codes keep the bare code
		}
	}
	out := agg.Mutate(series.New(labels, series.String, "AIRLINE_NAME"))
	if out.Err != nil {
		return agg, out.Err
	}
	return out, nil
}

// ByHour is mean capped delay per scheduled hour bucket, in hour order.
func ByHour(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	agg, err := MeanDelayBy(df, processor.ColScheduledHour)
	if err != nil {
		return agg, err
	}
	agg = agg.Arrange(dataframe.Sort(processor.ColScheduledHour))
	if agg.Err != nil {
		return dataframe.DataFrame{}, agg.Err
	}
	return agg, nil
}

// ByWeekend is mean capped delay for weekday vs weekend departures.
func ByWeekend(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	return MeanDelayBy(df, processor.ColIsWeekend)
}

// ByOriginAirport is mean capped delay per origin, joined against the
// airport reference data by code lookup. Codes missing from the reference
// table are silently skipped.
func ByOriginAirport(df dataframe.DataFrame, airports map[string]file.AirportRecord) (dataframe.DataFrame, error) {
	agg, err := MeanDelayBy(df, "ORIGIN_AIRPORT")
	if err != nil {
		return agg, err
	}

	records := [][]string{{
		"ORIGIN_AIRPORT", "AIRPORT", "LATITUDE", "LONGITUDE",
		processor.ColDelayCapped + "_MEAN", processor.ColDelayCapped + "_COUNT",
	}}
	codes := agg.Col("ORIGIN_AIRPORT")
	means := agg.Col(processor.ColDelayCapped + "_MEAN")
	counts := agg.Col(processor.ColDelayCapped + "_COUNT")
	for i := 0; i < agg.Nrow(); i++ {
		rec, ok := airports[codes.Elem(i).String()]
		if !ok {
			continue
		}
		records = append(records, []string{
			rec.Code,
			rec.Name,
			strconv.FormatFloat(rec.Latitude, 'f', -1, 64),
			strconv.FormatFloat(rec.Longitude, 'f', -1, 64),
			means.Elem(i).String(),
			counts.Elem(i).String(),
		})
	}
	if len(records) == 1 {
		// every origin code was unmatched
		return dataframe.DataFrame{}, nil
	}
	out := dataframe.LoadRecords(records,
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
	)
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}
	out = out.Arrange(dataframe.Sort("ORIGIN_AIRPORT"))
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}
	return out, nil
}

var printer = message.NewPrinter(language.English)

// FormatCount renders a row count for humans, e.g. 5819079 -> "5,819,079".
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// integrity.go
package processor

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"

	"FlightDelayEDA/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// IntegrityReport is a read-only diagnostic over the cleaned+featured
// table. Nothing here rejects data: a nonzero negative-delay count is a
// data-quality signal for human review, since flights legitimately depart
// early, and duplicates are counted rather than removed.
type IntegrityReport struct {
	Rows             int
	DuplicateRows    int // exact duplicates, all columns equal
	NegativeDistance int
	NegativeDelay    int
	FlaggedRows      int // rows NA-flagged during feature derivation
}

// IntegrityChecker is the pass-through diagnostic stage. It stores its
// report and hands the table on unchanged.
type IntegrityChecker struct {
	Report IntegrityReport
}

func (c *IntegrityChecker) Name() string { return "integrity" }

func (c *IntegrityChecker) Apply(ctx context.Context, df dataframe.DataFrame) (dataframe.DataFrame, error) {
	c.Report = CheckIntegrity(df)
	return df, nil
}

// CheckIntegrity computes the report without mutating or filtering.
func CheckIntegrity(df dataframe.DataFrame) IntegrityReport {
	report := IntegrityReport{Rows: df.Nrow()}

	// Row identity: md5 over the joined record, same trick used for
	// flight-id keys in the upstream ingestion tooling.
	seen := make(map[string]bool, df.Nrow())
	records := df.Records()
	if len(records) > 1 {
		for _, rec := range records[1:] {
			sum := md5.Sum([]byte(strings.Join(rec, "\x1f")))
			key := hex.EncodeToString(sum[:])
			if seen[key] {
				report.DuplicateRows++
			}
			seen[key] = true
		}
	}

	report.NegativeDistance = countNegative(df, "DISTANCE")
	report.NegativeDelay = countNegative(df, "DEPARTURE_DELAY")

	report.FlaggedRows = countFlagged(df)
	return report
}

// countFlagged counts rows whose derived hour or weekend flag is NA, i.e.
// rows the feature deriver skipped over a malformed value.
func countFlagged(df dataframe.DataFrame) int {
	var derived []series.Series
	for _, col := range []string{ColScheduledHour, ColIsWeekend} {
		if utils.HasColumn(df, col) {
			derived = append(derived, df.Col(col))
		}
	}
	if len(derived) == 0 {
		return 0
	}
	n := 0
	for i := 0; i < df.Nrow(); i++ {
		for _, col := range derived {
			if col.Elem(i).IsNA() {
				n++
				break
			}
		}
	}
	return n
}

func countNegative(df dataframe.DataFrame, col string) int {
	if !utils.IsNumeric(df, col) {
		return 0
	}
	n := 0
	for _, v := range df.Col(col).Float() {
		if v < 0 {
			n++
		}
	}
	return n
}


// cleaner.go
package processor

import (
	"context"
	"fmt"
	"math"
	"sort"

	"FlightDelayEDA/src/pipeline"
	"FlightDelayEDA/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ScopeFilter is the coarse row-retention filter applied before detailed
// cleaning, e.g. {Column: "MONTH", Value: "1"} to keep one calendar month.
// Values are compared against the element's string form, so it works for
// both numeric and string columns.
type ScopeFilter struct {
	Column string
	Value  string
}

// Cleaner turns a raw flights table into the cleaned snapshot the feature
// deriver expects. Steps run in a fixed order: scope filter, column pruning
// (with DATE derivation), essential-row drop, numeric median imputation.
// Later steps depend on earlier ones; the order is not negotiable.
type Cleaner struct {
	Essential []string
	Prune     []string
	Scope     *ScopeFilter // nil means identity
}

func (c *Cleaner) Name() string { return "cleaner" }

func (c *Cleaner) Apply(ctx context.Context, df dataframe.DataFrame) (dataframe.DataFrame, error) {
	cur, err := c.applyScope(df)
	if err != nil {
		return df, err
	}

	cur = deriveDate(cur)
	cur = PruneColumns(cur, c.Prune)
	if cur.Err != nil {
		return df, cur.Err
	}

	cur, err = c.dropEssentialNulls(cur)
	if err != nil {
		return df, err
	}

	cur = ImputeNumericMedians(cur)
	if cur.Err != nil {
		return df, cur.Err
	}
	return cur, nil
}

func (c *Cleaner) applyScope(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if c.Scope == nil || c.Scope.Column == "" {
		return df, nil
	}
	if !utils.HasColumn(df, c.Scope.Column) {
		return df, &pipeline.SchemaError{Column: c.Scope.Column, Stage: c.Name()}
	}
	want := c.Scope.Value
	return df.Filter(dataframe.F{
		Colname:    c.Scope.Column,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return !el.IsNA() && el.String() == want
		},
	}), nil
}

// deriveDate adds a DATE column (YYYY-MM-DD) from the raw YEAR/MONTH/DAY
// parts so those can be pruned right after. Rows with a missing part get an
// NA date. No-op when the parts are absent or DATE already exists.
func deriveDate(df dataframe.DataFrame) dataframe.DataFrame {
	if utils.HasColumn(df, "DATE") {
		return df
	}
	for _, col := range []string{"YEAR", "MONTH", "DAY"} {
		if !utils.HasColumn(df, col) {
			return df
		}
	}

	years := df.Col("YEAR")
	months := df.Col("MONTH")
	days := df.Col("DAY")

	dates := make([]string, df.Nrow())
	for i := range dates {
		y, m, d := years.Elem(i), months.Elem(i), days.Elem(i)
		if y.IsNA() || m.IsNA() || d.IsNA() {
			dates[i] = "NaN"
			continue
		}
		dates[i] = fmt.Sprintf("%04d-%02d-%02d", int(y.Float()), int(m.Float()), int(d.Float()))
	}
	return df.Mutate(series.New(dates, series.String, "DATE"))
}

// PruneColumns drops the named columns when present. Pruning a column that
// does not exist is a no-op, not an error, which also makes pruning an
// already-pruned table idempotent.
func PruneColumns(df dataframe.DataFrame, prune []string) dataframe.DataFrame {
	var existing []string
	for _, col := range prune {
		if utils.HasColumn(df, col) {
			existing = append(existing, col)
		}
	}
	if len(existing) == 0 {
		return df
	}
	return df.Drop(existing)
}

// dropEssentialNulls removes every row with a null identity/outcome field.
// These fields are non-imputable; an absent column (vs. a null value) is a
// schema error.
func (c *Cleaner) dropEssentialNulls(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	for _, col := range c.Essential {
		if !utils.HasColumn(df, col) {
			return df, &pipeline.SchemaError{Column: col, Stage: c.Name()}
		}
	}

	cols := make([]series.Series, len(c.Essential))
	for i, name := range c.Essential {
		cols[i] = df.Col(name)
	}

	keep := make([]int, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		ok := true
		for _, col := range cols {
			if col.Elem(i).IsNA() {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, i)
		}
	}
	if len(keep) == df.Nrow() {
		return df, nil
	}
	return df.Subset(keep), nil
}

// ImputeNumericMedians fills the nulls of every numeric column with that
// column's median over its non-null values. Non-numeric columns keep their
// nulls; categorical imputation is deliberately not attempted. Imputed
// columns come back as floats even when the source was int.
func ImputeNumericMedians(df dataframe.DataFrame) dataframe.DataFrame {
	cur := df
	for _, name := range df.Names() {
		if !utils.IsNumeric(cur, name) {
			continue
		}
		vals := cur.Col(name).Float()
		med, ok := median(vals)
		if !ok {
			continue // all nulls, nothing to impute from
		}
		changed := false
		filled := make([]float64, len(vals))
		for i, v := range vals {
			if math.IsNaN(v) {
				filled[i] = med
				changed = true
			} else {
				filled[i] = v
			}
		}
		if changed {
			cur = cur.Mutate(series.New(filled, series.Float, name))
		}
	}
	return cur
}

// median returns the conventional midpoint median of the non-NaN values,
// averaging the two middle values for even counts.
func median(vals []float64) (float64, bool) {
	clean := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return 0, false
	}
	sort.Float64s(clean)
	mid := len(clean) / 2
	if len(clean)%2 == 1 {
		return clean[mid], true
	}
	return (clean[mid-1] + clean[mid]) / 2, true
}

// Completeness is the cleaning report: column name -> fraction of non-null
// values. It is a pure function of a table, computable on demand by any
// caller.
func Completeness(df dataframe.DataFrame) map[string]float64 {
	report := make(map[string]float64, df.Ncol())
	n := df.Nrow()
	for _, name := range df.Names() {
		if n == 0 {
			report[name] = 0
			continue
		}
		col := df.Col(name)
		nonNull := 0
		for i := 0; i < n; i++ {
			if !col.Elem(i).IsNA() {
				nonNull++
			}
		}
		report[name] = float64(nonNull) / float64(n)
	}
	return report
}

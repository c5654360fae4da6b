package utils

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
)

func TestContains(t *testing.T) {
	if !Contains([]string{"a", "b"}, "b") || Contains([]string{"a"}, "z") {
		t.Error("Contains misbehaved for strings")
	}
	if !Contains([]int{1, 2, 3}, 2) {
		t.Error("Contains misbehaved for ints")
	}
}

func TestHasColumnAndIsNumeric(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"AIRLINE", "DISTANCE", "DEPARTURE_DELAY"},
		{"AA", "300", "1.5"},
	})

	if !HasColumn(df, "AIRLINE") || HasColumn(df, "NOPE") {
		t.Error("HasColumn misbehaved")
	}
	if IsNumeric(df, "AIRLINE") {
		t.Error("string column reported numeric")
	}
	if !IsNumeric(df, "DISTANCE") || !IsNumeric(df, "DEPARTURE_DELAY") {
		t.Error("numeric columns not recognized")
	}
	if IsNumeric(df, "NOPE") {
		t.Error("missing column reported numeric")
	}
}

package utils

import (
	"github.com/go-gota/gota/dataframe"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// HasColumn reports whether the DataFrame carries a column with this name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// IsNumeric reports whether a column holds int or float values.
func IsNumeric(df dataframe.DataFrame, name string) bool {
	if !HasColumn(df, name) {
		return false
	}
	switch df.Col(name).Type() {
	case "int", "float":
		return true
	}
	return false
}

package pipeline

import "fmt"

// LoadError means a data source could not be turned into a table at all:
// missing file, unreadable content, zero columns. Fatal to the run.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SchemaError means a required column is entirely absent from the input
// schema, as opposed to merely containing nulls. Fatal to the run.
type SchemaError struct {
	Column string
	Stage  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: required column %q absent from schema", e.Stage, e.Column)
}

// ValueError means a value is present but semantically invalid, e.g. an
// HHMM integer whose padded form yields no hour in [0,23]. During feature
// derivation these are isolated per row rather than aborting the table.
type ValueError struct {
	Column string
	Row    int
	Value  string
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("column %s row %d: value %q %s", e.Column, e.Row, e.Value, e.Reason)
}

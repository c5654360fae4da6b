// reader.go
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"FlightDelayEDA/src/pipeline"
	"FlightDelayEDA/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
)

// nanValues marks which cell contents count as missing. Empty cells are
// included so essential-field checks see them as nulls, not as "".
var nanValues = []string{"", "NA", "NaN", "<nil>"}

// Tables are the two raw inputs of a pipeline run.
type Tables struct {
	Flights  dataframe.DataFrame
	Airports dataframe.DataFrame
}

// LoadTables reads the flight and airport tables, preserving all columns
// and row order. Schema validation is the cleaner's job, not the loader's.
func LoadTables(flightsPath, airportsPath, sheetName string) (Tables, error) {
	flights, err := ReadTable(flightsPath, sheetName)
	if err != nil {
		return Tables{}, err
	}
	airports, err := ReadTable(airportsPath, sheetName)
	if err != nil {
		return Tables{}, err
	}
	return Tables{Flights: flights, Airports: airports}, nil
}

// ReadTable dispatches on the file extension: .csv or .xlsx.
func ReadTable(path, sheetName string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSVToDataFrame(path)
	case ".xlsx":
		return ReadXLSXToDataFrame(path, sheetName)
	default:
		return dataframe.DataFrame{}, &pipeline.LoadError{
			Source: path,
			Err:    fmt.Errorf("unsupported table format %q", filepath.Ext(path)),
		}
	}
}

func ReadCSVToDataFrame(filePath string) (dataframe.DataFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.DataFrame{}, &pipeline.LoadError{Source: filePath, Err: err}
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, &pipeline.LoadError{Source: filePath, Err: df.Err}
	}
	if df.Ncol() == 0 {
		return dataframe.DataFrame{}, &pipeline.LoadError{
			Source: filePath,
			Err:    fmt.Errorf("table has zero columns"),
		}
	}
	return df, nil
}

func ReadXLSXToDataFrame(filePath, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, &pipeline.LoadError{Source: filePath, Err: err}
	}
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, &pipeline.LoadError{
			Source: filePath,
			Err:    fmt.Errorf("workbook has no sheets"),
		}
	}

	sheet, ok := xlFile.Sheet[sheetName]
	if !ok {
		sheet = xlFile.Sheets[0]
	}

	df := convertSheetToDataFrame(sheet)
	if df.Err != nil {
		return dataframe.DataFrame{}, &pipeline.LoadError{Source: filePath, Err: df.Err}
	}
	if df.Ncol() == 0 {
		return dataframe.DataFrame{}, &pipeline.LoadError{
			Source: filePath,
			Err:    fmt.Errorf("sheet %q has zero columns", sheet.Name),
		}
	}
	return df, nil
}

// convertSheetToDataFrame treats the first row as the header and loads the
// rest through the same type detection as the CSV path.
func convertSheetToDataFrame(sheet *xlsx.Sheet) dataframe.DataFrame {
	if len(sheet.Rows) == 0 {
		return dataframe.New()
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, cell.Value)
	}

	records := [][]string{headers}
	for _, row := range sheet.Rows[1:] {
		rec := make([]string, len(headers))
		for i, cell := range row.Cells {
			if i < len(headers) {
				rec[i] = cell.Value
			}
		}
		records = append(records, rec)
	}

	return dataframe.LoadRecords(records,
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues),
	)
}

// AirportRecord is read-only reference data keyed by IATA code.
type AirportRecord struct {
	Code      string
	Name      string
	Latitude  float64
	Longitude float64
}

// AirportIndex builds a code lookup from the airports table. Rows without a
// code are skipped; downstream joins silently skip unmatched codes, so no
// foreign-key enforcement happens here either.
func AirportIndex(df dataframe.DataFrame) map[string]AirportRecord {
	index := make(map[string]AirportRecord)
	if !utils.HasColumn(df, "IATA_CODE") {
		return index
	}

	codes := df.Col("IATA_CODE")
	var names, lats, lons series.Series
	hasName := utils.HasColumn(df, "AIRPORT")
	hasLat := utils.HasColumn(df, "LATITUDE")
	hasLon := utils.HasColumn(df, "LONGITUDE")
	if hasName {
		names = df.Col("AIRPORT")
	}
	if hasLat {
		lats = df.Col("LATITUDE")
	}
	if hasLon {
		lons = df.Col("LONGITUDE")
	}

	for i := 0; i < df.Nrow(); i++ {
		if codes.Elem(i).IsNA() {
			continue
		}
		code := codes.Elem(i).String()
		if code == "" {
			continue
		}
		rec := AirportRecord{Code: code}
		if hasName {
			rec.Name = names.Elem(i).String()
		}
		if hasLat {
			rec.Latitude = lats.Elem(i).Float()
		}
		if hasLon {
			rec.Longitude = lons.Elem(i).Float()
		}
		index[code] = rec
	}
	return index
}

// AirlineNames builds the optional airline code -> display name mapping.
func AirlineNames(df dataframe.DataFrame) map[string]string {
	out := make(map[string]string)
	if !utils.HasColumn(df, "IATA_CODE") || !utils.HasColumn(df, "AIRLINE") {
		return out
	}
	codes := df.Col("IATA_CODE")
	labels := df.Col("AIRLINE")
	for i := 0; i < df.Nrow(); i++ {
		if codes.Elem(i).IsNA() {
			continue
		}
		out[codes.Elem(i).String()] = labels.Elem(i).String()
	}
	return out
}

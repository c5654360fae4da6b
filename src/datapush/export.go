// export.go
package datapush

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

const (
	retryTimes    = 3
	retryInterval = 2 * time.Second
)

// Sheet pairs a tab name with the table to write into it.
type Sheet struct {
	Name  string
	Table dataframe.DataFrame
}

// ExportWorkbook writes each table into its own sheet of a single xlsx
// workbook. The save is retried, since report paths often sit on flaky
// network shares.
func ExportWorkbook(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("export %s: no sheets to write", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sh.Name); err != nil {
				return fmt.Errorf("create sheet %s: %w", sh.Name, err)
			}
		}
		if err := writeTable(f, sh.Name, sh.Table); err != nil {
			return fmt.Errorf("write sheet %s: %w", sh.Name, err)
		}
	}

	return retry(func() error {
		return f.SaveAs(path)
	}, retryTimes, retryInterval)
}

func writeTable(f *excelize.File, sheetName string, df dataframe.DataFrame) error {
	colNames := df.Names()
	for i, name := range colNames {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return err
		}
	}

	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		for colIdx, colName := range colNames {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			val := df.Col(colName).Val(rowIdx)
			// NA cells stay empty rather than becoming the text "NaN".
			if fv, ok := val.(float64); ok && math.IsNaN(fv) {
				continue
			}
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return err
			}
		}
	}
	return nil
}

func retry(fn func() error, times int, interval time.Duration) error {
	var err error
	for i := 0; i < times; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < times-1 {
			time.Sleep(interval)
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", times, err)
}

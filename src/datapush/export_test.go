package datapush

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

func TestExportWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	cleaned := dataframe.LoadRecords([][]string{
		{"AIRLINE", "DEPARTURE_DELAY"},
		{"AA", "3"},
		{"UA", "50"},
	})
	byAirline := dataframe.LoadRecords([][]string{
		{"AIRLINE", "DEPARTURE_DELAY_CAPPED_MEAN"},
		{"AA", "3"},
		{"UA", "50"},
	})

	err := ExportWorkbook(path, []Sheet{
		{Name: "Cleaned", Table: cleaned},
		{Name: "ByAirline", Table: byAirline},
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Cleaned" || sheets[1] != "ByAirline" {
		t.Fatalf("sheets = %v", sheets)
	}

	if got, _ := f.GetCellValue("Cleaned", "A1"); got != "AIRLINE" {
		t.Errorf("A1 = %q, want header", got)
	}
	if got, _ := f.GetCellValue("Cleaned", "A3"); got != "UA" {
		t.Errorf("A3 = %q, want UA", got)
	}
	if got, _ := f.GetCellValue("ByAirline", "B2"); got != "3" {
		t.Errorf("ByAirline B2 = %q, want 3", got)
	}
}

func TestExportWorkbookNoSheets(t *testing.T) {
	if err := ExportWorkbook(filepath.Join(t.TempDir(), "x.xlsx"), nil); err == nil {
		t.Fatal("expected error for empty export")
	}
}

func TestRetry(t *testing.T) {
	calls := 0
	err := retry(func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("transient")
		}
		return nil
	}, 5, time.Millisecond)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}

	err = retry(func() error { return fmt.Errorf("always") }, 2, time.Millisecond)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
}

package leaderboard

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []any{"Kedudukan", "Nama", "Latihan", "Markah", "Masa (saat)", "Tarikh"}

// Export writes entries, ranked, to w as an .xlsx workbook with one sheet
// named after sheet.
func Export(w io.Writer, sheet string, entries []Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Leaderboard"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	ranked := Rank(append([]Entry(nil), entries...))
	for i, e := range ranked {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			i + 1,
			e.Name,
			e.DrillID,
			e.Score,
			e.ElapsedSeconds,
			e.Timestamp.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(sheet, "B", "B", 24); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

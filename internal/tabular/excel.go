package tabular

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet read as raw text cells.
type Sheet struct {
	Name string
	Grid Grid
}

// ReadWorkbook opens an Excel workbook and returns one grid per non-empty
// sheet, in workbook sheet order. Cell values are the raw formatted text
// excelize reports; no typing is applied.
func ReadWorkbook(r io.Reader) ([]Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		if len(rows) == 0 {
			continue
		}
		sheets = append(sheets, Sheet{Name: name, Grid: rows})
	}
	return sheets, nil
}

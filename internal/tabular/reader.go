// Package tabular reads uploaded CSV files and Excel workbooks into
// rectangular grids of untyped string cells. No header row is assumed and
// cell values are never interpreted; downstream classification works on the
// raw text. Malformed CSV lines are skipped row by row rather than failing
// the whole file.
package tabular

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Grid is one rectangular table of raw string cells, rows in file order.
// Row lengths may vary.
type Grid [][]string

// Source is one logical unit of input: a CSV file, or one sheet of a
// workbook. Name is the file name, qualified by the sheet name for
// workbooks ("book.xlsx::Sheet1").
type Source struct {
	Name string
	Grid Grid
}

// SupportedExt reports whether the file extension is one this package
// can read.
func SupportedExt(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".xlsx", ".xlsm":
		return true
	}
	return false
}

// ReadSources parses an uploaded file into its sources: one for a CSV,
// one per non-empty sheet for a workbook. Empty sheets are dropped.
func ReadSources(fileName string, r io.Reader) ([]Source, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		grid, err := ReadCSV(r)
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", fileName, err)
		}
		return []Source{{Name: fileName, Grid: grid}}, nil

	case ".xlsx", ".xlsm":
		sheets, err := ReadWorkbook(r)
		if err != nil {
			return nil, fmt.Errorf("read workbook %s: %w", fileName, err)
		}
		sources := make([]Source, 0, len(sheets))
		for _, sheet := range sheets {
			sources = append(sources, Source{
				Name: fmt.Sprintf("%s::%s", fileName, sheet.Name),
				Grid: sheet.Grid,
			})
		}
		return sources, nil

	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileName)
	}
}

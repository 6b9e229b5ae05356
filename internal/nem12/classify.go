package nem12

import (
	"fmt"
	"strings"
)

// InferenceRowThreshold is the grid size above which a markerless grid is
// treated entirely as interval data. At or below it (and above one row) the
// first row is treated as a meter-config header and the rest as interval data.
var InferenceRowThreshold = 10

// Classify assigns each row of the grid to a row-type bucket.
//
// The first cell of each row, trimmed of whitespace, is matched exactly
// against the recognized codes. Fully empty rows are dropped before
// classification. When no row carries a recognized code the structural
// inference heuristic is applied instead.
//
// Returns the bucket map (buckets in original row order), whether explicit
// type codes were found, and any diagnostics raised along the way.
// Classify is a pure function of its input.
func Classify(grid [][]string, source string) (BucketMap, bool, []Diagnostic) {
	rows := dropEmptyRows(grid)

	buckets := make(BucketMap, len(RowOrder))
	explicit := false

	for _, cells := range rows {
		t := TypeUnclassified
		if len(cells) > 0 {
			t = ParseRowType(cells[0])
		}
		if !t.Known() {
			continue
		}
		explicit = true
		buckets[t] = append(buckets[t], Row{Type: t, Cells: cells, Source: source})
	}

	if explicit {
		return buckets, true, nil
	}

	return inferBuckets(rows, source)
}

// inferBuckets applies the structural heuristic to a grid with no explicit
// row-type codes: large grids are all interval data, small grids get their
// first row promoted to a meter-config header.
func inferBuckets(rows [][]string, source string) (BucketMap, bool, []Diagnostic) {
	buckets := make(BucketMap, len(RowOrder))

	if len(rows) < 2 {
		return buckets, false, []Diagnostic{
			Warn(source, fmt.Sprintf("no NEM12 row-type codes found and only %d usable row(s); nothing to extract", len(rows))),
		}
	}

	if len(rows) > InferenceRowThreshold {
		for _, cells := range rows {
			buckets[TypeInterval] = append(buckets[TypeInterval], Row{Type: TypeInterval, Cells: cells, Source: source})
		}
		return buckets, false, []Diagnostic{
			Info(source, fmt.Sprintf("no row-type codes found; treating all %d rows as 300 interval data", len(rows))),
		}
	}

	buckets[TypeMeterConfig] = []Row{{Type: TypeMeterConfig, Cells: rows[0], Source: source}}
	for _, cells := range rows[1:] {
		buckets[TypeInterval] = append(buckets[TypeInterval], Row{Type: TypeInterval, Cells: cells, Source: source})
	}
	return buckets, false, []Diagnostic{
		Info(source, fmt.Sprintf("no row-type codes found; treating first row as 200 meter config and %d rows as 300 interval data", len(rows)-1)),
	}
}

// dropEmptyRows removes rows whose cells are all blank after trimming.
func dropEmptyRows(grid [][]string) [][]string {
	out := make([][]string, 0, len(grid))
	for _, cells := range grid {
		if !isEmptyRow(cells) {
			out = append(out, cells)
		}
	}
	return out
}

func isEmptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

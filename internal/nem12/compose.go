package nem12

import (
	"encoding/csv"
	"errors"
	"strings"
)

// ErrNoBlocks is returned when Compose is called with nothing to serialize.
var ErrNoBlocks = errors.New("no blocks to compose")

// Compose concatenates all blocks' rows, in block order, into the final
// NEM12 text. Rows are padded to the widest row in the combined table and
// columns that are empty across every row are pruned before serialization.
// Fields are comma-joined and quoted only when they contain the delimiter,
// a quote, or a line break.
func Compose(blocks []Block) (string, error) {
	if len(blocks) == 0 {
		return "", ErrNoBlocks
	}

	var table [][]string
	width := 0
	for _, b := range blocks {
		for _, r := range b.Rows {
			table = append(table, r.Cells)
			if len(r.Cells) > width {
				width = len(r.Cells)
			}
		}
	}
	if len(table) == 0 {
		return "", ErrNoBlocks
	}

	table = padRows(table, width)
	table = pruneEmptyColumns(table)

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.WriteAll(table); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// padRows right-pads every row with empty fields up to width.
func padRows(table [][]string, width int) [][]string {
	out := make([][]string, len(table))
	for i, row := range table {
		if len(row) == width {
			out[i] = row
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}

// pruneEmptyColumns drops any column whose value is empty in every row.
func pruneEmptyColumns(table [][]string) [][]string {
	if len(table) == 0 {
		return table
	}

	width := len(table[0])
	keep := make([]bool, width)
	for _, row := range table {
		for i, v := range row {
			if v != "" {
				keep[i] = true
			}
		}
	}

	kept := 0
	for _, k := range keep {
		if k {
			kept++
		}
	}
	if kept == width {
		return table
	}

	out := make([][]string, len(table))
	for i, row := range table {
		pruned := make([]string, 0, kept)
		for j, v := range row {
			if keep[j] {
				pruned = append(pruned, v)
			}
		}
		out[i] = pruned
	}
	return out
}

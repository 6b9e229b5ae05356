// Package nem12 implements the NEM12 record classification, gap-filling and
// ordering engine. It takes arbitrary tabular rows, buckets each one by its
// NEM12 row-type code (inferring a bucket when no explicit codes exist),
// synthesizes missing mandatory rows from templates, and serializes a
// correctly ordered multi-block output.
//
// The package has no I/O dependencies: grids come in as [][]string and the
// final file goes out as a string. Every decision point reports through
// Diagnostic values returned alongside results.
package nem12

import "strings"

// RowType identifies the structural role of a NEM12 row.
// The zero value means the row could not be classified.
type RowType int

const (
	TypeUnclassified RowType = iota
	TypeHeader               // 100
	TypeMeterConfig          // 200
	TypeInterval             // 300
	TypeEvent                // 400
	TypeTrailer              // 900
)

// RowOrder is the canonical emission order of row types within a block.
var RowOrder = []RowType{TypeHeader, TypeMeterConfig, TypeInterval, TypeEvent, TypeTrailer}

// rowTypeCodes maps the wire codes to their RowType.
var rowTypeCodes = map[string]RowType{
	"100": TypeHeader,
	"200": TypeMeterConfig,
	"300": TypeInterval,
	"400": TypeEvent,
	"900": TypeTrailer,
}

// Code returns the wire code for the row type ("100" ... "900"),
// or "" for TypeUnclassified.
func (t RowType) Code() string {
	switch t {
	case TypeHeader:
		return "100"
	case TypeMeterConfig:
		return "200"
	case TypeInterval:
		return "300"
	case TypeEvent:
		return "400"
	case TypeTrailer:
		return "900"
	default:
		return ""
	}
}

// String implements fmt.Stringer for log output.
func (t RowType) String() string {
	if t == TypeUnclassified {
		return "unclassified"
	}
	return t.Code()
}

// Known reports whether t is one of the five recognized row types.
func (t RowType) Known() bool {
	return t >= TypeHeader && t <= TypeTrailer
}

// ParseRowType matches a raw first cell against the recognized codes.
// The cell is trimmed of surrounding whitespace; matching is exact.
func ParseRowType(cell string) RowType {
	if t, ok := rowTypeCodes[strings.TrimSpace(cell)]; ok {
		return t
	}
	return TypeUnclassified
}

// Row is one record destined for the output file: its ordered string cells,
// the type bucket it landed in, and the display name of the source it came
// from (kept for diagnostics).
type Row struct {
	Type   RowType
	Cells  []string
	Source string
}

// BucketMap holds classified rows per type, each bucket in original row order.
type BucketMap map[RowType][]Row

// Size returns the total number of rows across all buckets.
func (m BucketMap) Size() int {
	n := 0
	for _, b := range m {
		n += len(b)
	}
	return n
}

// Block is the per-source output unit: one 100 row first, one 900 row last,
// interior rows sorted by RowType.
type Block struct {
	Source string
	Rows   []Row
}

package nem12

import (
	"errors"
	"fmt"
	"sort"
)

// ErrEmptyAssembly is returned when a source contributes no rows at all
// after assembly; the source is excluded from the output.
var ErrEmptyAssembly = errors.New("empty assembly: source produced no rows")

// Assemble combines a source's classified buckets with synthesized template
// rows into one ordered block.
//
// Per type in canonical order: a non-empty bucket is taken as-is. An empty
// 100 bucket is always filled from the catalog; an empty 200 bucket is
// filled only when the source has 300 data (interval rows without a meter
// config are incomplete); empty 300 and 400 buckets stay empty; the 900
// trailer is appended in the post-pass. The post-pass also re-checks the
// 100 row and stable-sorts the result, guarding against bucket-order
// changes.
//
// An unknown row type surviving into the working sequence makes the sort
// unsafe: the block is kept unsorted and an error diagnostic is emitted
// rather than dropping the source's data.
func Assemble(source string, buckets BucketMap, catalog *Catalog) (Block, []Diagnostic, error) {
	var diags []Diagnostic

	if buckets.Size() == 0 {
		diags = append(diags, Error(source, "source produced no rows; excluded from output"))
		return Block{}, diags, fmt.Errorf("%s: %w", source, ErrEmptyAssembly)
	}

	rows := make([]Row, 0, buckets.Size()+2)

	for _, t := range RowOrder {
		bucket := buckets[t]
		if len(bucket) > 0 {
			rows = append(rows, bucket...)
			continue
		}

		switch t {
		case TypeHeader:
			rows = append(rows, catalog.TemplateFor(TypeHeader, source))
			diags = append(diags, Info(source, "no 100 header row found; synthesized from template"))
		case TypeMeterConfig:
			if len(buckets[TypeInterval]) > 0 {
				rows = append(rows, catalog.TemplateFor(TypeMeterConfig, source))
				diags = append(diags, Info(source, "300 interval rows present without a 200 meter config row; synthesized from template"))
			}
		}
		// 300 and 400 are optional per block; 900 is handled below.
	}

	if !containsType(rows, TypeTrailer) {
		rows = append(rows, catalog.TemplateFor(TypeTrailer, source))
	}
	if !containsType(rows, TypeHeader) {
		rows = append([]Row{catalog.TemplateFor(TypeHeader, source)}, rows...)
	}

	sorted, err := sortRows(rows)
	if err != nil {
		diags = append(diags, Error(source, fmt.Sprintf("canonical ordering failed: %v; block kept unsorted", err)))
		return Block{Source: source, Rows: rows}, diags, nil
	}

	return Block{Source: source, Rows: sorted}, diags, nil
}

// sortRows stable-sorts rows by canonical row-type order. It refuses to
// sort a sequence containing an unrecognized type.
func sortRows(rows []Row) ([]Row, error) {
	for _, r := range rows {
		if !r.Type.Known() {
			return nil, fmt.Errorf("unexpected row type %q", r.Type)
		}
	}

	out := make([]Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Type < out[j].Type
	})
	return out, nil
}

func containsType(rows []Row, t RowType) bool {
	for _, r := range rows {
		if r.Type == t {
			return true
		}
	}
	return false
}

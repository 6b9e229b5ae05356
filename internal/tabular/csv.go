package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses comma-delimited text into a grid. Metering exports are
// frequently Latin-1 encoded Windows files, so input that is not valid
// UTF-8 is decoded as ISO-8859-1, a leading BOM is stripped, and rows with
// mismatched quoting are skipped individually instead of aborting the file.
func ReadCSV(r io.Reader) (Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	data = decodeLatin1IfNeeded(data)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var grid Grid
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// Bad line: skip it and keep going.
			continue
		}
		if err != nil {
			return nil, err
		}
		grid = append(grid, record)
	}
	return grid, nil
}

// decodeLatin1IfNeeded re-decodes data as ISO-8859-1 when it is not valid
// UTF-8. Latin-1 decoding cannot fail; every byte maps to a rune.
func decodeLatin1IfNeeded(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return data
	}
	return decoded
}

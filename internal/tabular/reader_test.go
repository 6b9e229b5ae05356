package tabular

import (
	"strings"
	"testing"
)

func TestSupportedExt(t *testing.T) {
	tests := []struct {
		name string
		file string
		want bool
	}{
		{name: "csv", file: "meter.csv", want: true},
		{name: "csv uppercase", file: "METER.CSV", want: true},
		{name: "xlsx", file: "book.xlsx", want: true},
		{name: "xlsm", file: "book.xlsm", want: true},
		{name: "xls legacy", file: "book.xls", want: false},
		{name: "text", file: "notes.txt", want: false},
		{name: "no extension", file: "meter", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SupportedExt(tt.file); got != tt.want {
				t.Errorf("SupportedExt(%q) = %v, want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Grid
	}{
		{
			name:  "plain rows",
			input: "200,NMI1\n300,20240101,A\n",
			want:  Grid{{"200", "NMI1"}, {"300", "20240101", "A"}},
		},
		{
			name:  "ragged rows preserved",
			input: "100,NEM12,x,y,z\n900\n",
			want:  Grid{{"100", "NEM12", "x", "y", "z"}, {"900"}},
		},
		{
			name:  "utf8 bom stripped",
			input: "\xEF\xBB\xBF300,a\n",
			want:  Grid{{"300", "a"}},
		},
		{
			name:  "crlf line endings",
			input: "300,a\r\n900\r\n",
			want:  Grid{{"300", "a"}, {"900"}},
		},
		{
			name:  "latin-1 bytes decoded",
			input: "300,caf\xe9\n",
			want:  Grid{{"300", "café"}},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadCSV(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadCSV: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d rows %v, want %d rows %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range tt.want {
				if len(got[i]) != len(tt.want[i]) {
					t.Fatalf("row %d = %v, want %v", i, got[i], tt.want[i])
				}
				for j := range tt.want[i] {
					if got[i][j] != tt.want[i][j] {
						t.Errorf("cell [%d][%d] = %q, want %q", i, j, got[i][j], tt.want[i][j])
					}
				}
			}
		})
	}
}

func TestReadSources_CSV(t *testing.T) {
	sources, err := ReadSources("meter.csv", strings.NewReader("300,a\n"))
	if err != nil {
		t.Fatalf("ReadSources: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}
	if sources[0].Name != "meter.csv" {
		t.Errorf("source name = %q, want %q", sources[0].Name, "meter.csv")
	}
	if len(sources[0].Grid) != 1 {
		t.Errorf("grid = %v", sources[0].Grid)
	}
}

func TestReadSources_UnsupportedType(t *testing.T) {
	if _, err := ReadSources("notes.txt", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for unsupported file type")
	}
}

func TestReadSources_CorruptWorkbook(t *testing.T) {
	if _, err := ReadSources("book.xlsx", strings.NewReader("not a zip")); err == nil {
		t.Fatal("expected error for corrupt workbook")
	}
}

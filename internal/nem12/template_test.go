package nem12

import (
	"testing"
	"time"
)

func fixedCatalog() *Catalog {
	return &Catalog{
		FromParticipant: "MDP",
		ToParticipant:   "ParticipantID",
		Now:             func() time.Time { return time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC) },
	}
}

func TestCatalog_TemplateFor(t *testing.T) {
	c := fixedCatalog()

	tests := []struct {
		name     string
		rowType  RowType
		wantCell []string
	}{
		{
			name:     "header carries generation timestamp and participants",
			rowType:  TypeHeader,
			wantCell: []string{"100", "NEM12", "202406150930", "MDP", "ParticipantID"},
		},
		{
			name:     "trailer is bare marker",
			rowType:  TypeTrailer,
			wantCell: []string{"900"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.TemplateFor(tt.rowType, "s")
			if got.Type != tt.rowType {
				t.Errorf("Type = %v, want %v", got.Type, tt.rowType)
			}
			if got.Source != "s" {
				t.Errorf("Source = %q, want %q", got.Source, "s")
			}
			if len(got.Cells) != len(tt.wantCell) {
				t.Fatalf("Cells = %v, want %v", got.Cells, tt.wantCell)
			}
			for i, want := range tt.wantCell {
				if got.Cells[i] != want {
					t.Errorf("Cells[%d] = %q, want %q", i, got.Cells[i], want)
				}
			}
		})
	}
}

func TestCatalog_TemplateFor_FirstCellMatchesType(t *testing.T) {
	c := fixedCatalog()
	for _, rt := range RowOrder {
		row := c.TemplateFor(rt, "s")
		if len(row.Cells) == 0 {
			t.Fatalf("template for %v has no cells", rt)
		}
		if row.Cells[0] != rt.Code() {
			t.Errorf("template for %v starts with %q, want %q", rt, row.Cells[0], rt.Code())
		}
	}
}

func TestCatalog_TemplateFor_Unclassified(t *testing.T) {
	c := fixedCatalog()
	row := c.TemplateFor(TypeUnclassified, "s")
	if len(row.Cells) != 0 {
		t.Errorf("expected empty row for unclassified type, got %v", row.Cells)
	}
}

func TestCatalog_DefaultClock(t *testing.T) {
	c := NewCatalog("MDP", "ParticipantID")
	row := c.TemplateFor(TypeHeader, "s")

	if _, err := time.Parse(HeaderTimestampLayout, row.Cells[2]); err != nil {
		t.Errorf("header timestamp %q does not match layout %s: %v", row.Cells[2], HeaderTimestampLayout, err)
	}
}

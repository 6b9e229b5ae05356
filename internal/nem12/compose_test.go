package nem12

import (
	"errors"
	"strings"
	"testing"
)

func blockOf(cells ...[]string) Block {
	rows := make([]Row, len(cells))
	for i, c := range cells {
		rows[i] = Row{Type: ParseRowType(c[0]), Cells: c, Source: "s"}
	}
	return Block{Source: "s", Rows: rows}
}

func TestCompose_NoBlocks(t *testing.T) {
	if _, err := Compose(nil); !errors.Is(err, ErrNoBlocks) {
		t.Errorf("err = %v, want ErrNoBlocks", err)
	}
	if _, err := Compose([]Block{}); !errors.Is(err, ErrNoBlocks) {
		t.Errorf("err = %v, want ErrNoBlocks", err)
	}
}

func TestCompose_SingleBlock(t *testing.T) {
	out, err := Compose([]Block{blockOf(
		[]string{"100", "NEM12", "202406150930", "MDP", "ParticipantID"},
		[]string{"200", "NMI1"},
		[]string{"300", "20240101", "A"},
		[]string{"900"},
	)})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	want := strings.Join([]string{
		"100,NEM12,202406150930,MDP,ParticipantID",
		"200,NMI1,,,",
		"300,20240101,A,,",
		"900,,,,",
		"",
	}, "\n")
	if out != want {
		t.Errorf("output:\n%q\nwant:\n%q", out, want)
	}
}

func TestCompose_BlockOrderPreserved(t *testing.T) {
	out, err := Compose([]Block{
		blockOf([]string{"100", "first"}, []string{"900"}),
		blockOf([]string{"100", "second"}, []string{"900"}),
	})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %v", lines)
	}
	if !strings.Contains(lines[0], "first") || !strings.Contains(lines[2], "second") {
		t.Errorf("block order not preserved: %v", lines)
	}
}

func TestCompose_SparseColumnPruning(t *testing.T) {
	// Column 2 is empty in every row and must disappear; column 3 has one
	// value and must survive.
	out, err := Compose([]Block{blockOf(
		[]string{"100", "a", "", "x"},
		[]string{"300", "b", "", ""},
		[]string{"900"},
	)})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	want := strings.Join([]string{
		"100,a,x",
		"300,b,",
		"900,,",
		"",
	}, "\n")
	if out != want {
		t.Errorf("output:\n%q\nwant:\n%q", out, want)
	}
}

func TestCompose_QuotingOnlyWhenNeeded(t *testing.T) {
	out, err := Compose([]Block{blockOf(
		[]string{"100", "plain"},
		[]string{"300", "has,comma"},
		[]string{"900"},
	)})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if !strings.Contains(out, `"has,comma"`) {
		t.Errorf("field with delimiter not quoted: %q", out)
	}
	if strings.Contains(out, `"plain"`) {
		t.Errorf("plain field should not be quoted: %q", out)
	}
}

func TestCompose_PadsShortRows(t *testing.T) {
	out, err := Compose([]Block{blockOf(
		[]string{"100", "a", "b", "c"},
		[]string{"900"},
	)})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[1] != "900,,," {
		t.Errorf("trailer row = %q, want %q", lines[1], "900,,,")
	}
}

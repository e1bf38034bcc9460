package omr

import (
	"errors"
	"image"
	"testing"
)

func TestMapGrid_QuestionNumbering(t *testing.T) {
	cells := MapGrid(image.Rect(0, 0, 500, 1600), DefaultGridSpec())

	if len(cells) != 100 {
		t.Fatalf("cell count: got %d, want 100", len(cells))
	}

	// Ascending and contiguous question numbers.
	for i, cell := range cells {
		if cell.Question != i+1 {
			t.Fatalf("cells[%d].Question: got %d, want %d", i, cell.Question, i+1)
		}
	}

	// Column-major: question 21 is the top of the second column.
	if got := cells[20].Bounds; got != image.Rect(100, 0, 200, 80) {
		t.Errorf("question 21 bounds: got %v, want (100,0)-(200,80)", got)
	}

	// Question 100 is the bottom of the last column.
	if got := cells[99].Bounds; got != image.Rect(400, 1520, 500, 1600) {
		t.Errorf("question 100 bounds: got %v, want (400,1520)-(500,1600)", got)
	}
}

func TestMapGrid_OptionBands(t *testing.T) {
	cells := MapGrid(image.Rect(0, 0, 500, 1600), DefaultGridSpec())

	cell := cells[0]
	if len(cell.Options) != 4 {
		t.Fatalf("option count: got %d, want 4", len(cell.Options))
	}

	wantLabels := []Label{"a", "b", "c", "d"}
	for i, band := range cell.Options {
		if band.Label != wantLabels[i] {
			t.Errorf("Options[%d].Label: got %q, want %q", i, band.Label, wantLabels[i])
		}
	}

	// Cell height 80 splits into four 20-pixel bands, top to bottom.
	for i, band := range cell.Options {
		want := image.Rect(0, i*20, 100, i*20+20)
		if band.Bounds != want {
			t.Errorf("Options[%d].Bounds: got %v, want %v", i, band.Bounds, want)
		}
	}
}

func TestMapGrid_TruncatesRemainder(t *testing.T) {
	// 503x1607 does not divide evenly by 5x20: cells stay 100x80 and the
	// 3-pixel right margin and 7-pixel bottom margin belong to no cell.
	cells := MapGrid(image.Rect(0, 0, 503, 1607), DefaultGridSpec())

	last := cells[len(cells)-1]
	if got := last.Bounds.Max; got != image.Pt(500, 1600) {
		t.Errorf("last cell max: got %v, want (500,1600)", got)
	}
}

func TestMapGrid_TruncatesBandRemainder(t *testing.T) {
	// Cell height 78 gives 19-pixel bands; the bottom 2 pixels of every
	// cell belong to no band.
	cells := MapGrid(image.Rect(0, 0, 500, 1560), DefaultGridSpec())

	cell := cells[0]
	if cell.Bounds.Dy() != 78 {
		t.Fatalf("cell height: got %d, want 78", cell.Bounds.Dy())
	}
	if got := cell.Options[3].Bounds.Max.Y; got != 76 {
		t.Errorf("last band max Y: got %d, want 76", got)
	}
}

func TestMapGrid_OffsetBounds(t *testing.T) {
	spec := GridSpec{QuestionColumns: 2, QuestionRows: 2, OptionsPerQuestion: 2}
	cells := MapGrid(image.Rect(10, 20, 110, 120), spec)

	if len(cells) != 4 {
		t.Fatalf("cell count: got %d, want 4", len(cells))
	}
	if got := cells[0].Bounds; got != image.Rect(10, 20, 60, 70) {
		t.Errorf("first cell bounds: got %v, want (10,20)-(60,70)", got)
	}
	if got := cells[2].Bounds; got != image.Rect(60, 20, 110, 70) {
		t.Errorf("second column bounds: got %v, want (60,20)-(110,70)", got)
	}
}

func TestMapGrid_ImageSmallerThanGrid(t *testing.T) {
	cells := MapGrid(image.Rect(0, 0, 3, 3), DefaultGridSpec())

	if len(cells) != 100 {
		t.Fatalf("cell count: got %d, want 100", len(cells))
	}
	for _, cell := range cells {
		if !cell.Bounds.Empty() {
			t.Fatalf("question %d: got non-empty bounds %v on a 3x3 image", cell.Question, cell.Bounds)
		}
	}
}

func TestGridSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    GridSpec
		wantErr bool
	}{
		{"default", DefaultGridSpec(), false},
		{"single question", GridSpec{1, 1, 2}, false},
		{"zero columns", GridSpec{0, 20, 4}, true},
		{"zero rows", GridSpec{5, 0, 4}, true},
		{"one option", GridSpec{5, 20, 1}, true},
		{"too many options", GridSpec{5, 20, 27}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr {
				var cfgErr *ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("expected ConfigurationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestGridSpec_Labels(t *testing.T) {
	labels := GridSpec{QuestionColumns: 1, QuestionRows: 1, OptionsPerQuestion: 4}.Labels()

	want := []Label{"a", "b", "c", "d"}
	if len(labels) != len(want) {
		t.Fatalf("label count: got %d, want %d", len(labels), len(want))
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d]: got %q, want %q", i, labels[i], want[i])
		}
	}

	all := GridSpec{QuestionColumns: 1, QuestionRows: 1, OptionsPerQuestion: 26}.Labels()
	if all[25] != "z" {
		t.Errorf("labels[25]: got %q, want z", all[25])
	}
}

func TestGridSpec_QuestionCount(t *testing.T) {
	if got := DefaultGridSpec().QuestionCount(); got != 100 {
		t.Errorf("QuestionCount: got %d, want 100", got)
	}
}

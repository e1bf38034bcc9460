package overlay

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"omr-grader/internal/omr"
)

// decodeSheetImage decodes a SheetImage back into pixels.
func decodeSheetImage(t *testing.T, si *SheetImage) image.Image {
	t.Helper()

	raw, err := base64.StdEncoding.DecodeString(si.ImageBase64)
	if err != nil {
		t.Fatalf("decoding base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	return img
}

// inkMask builds a 80x80 mask with ink filling the given rectangle.
func inkMask(r image.Rectangle) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, 80, 80))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			mask.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return mask
}

func TestRenderMask(t *testing.T) {
	mask := inkMask(image.Rect(10, 10, 30, 20))

	si, err := RenderMask(mask)
	if err != nil {
		t.Fatalf("RenderMask failed: %v", err)
	}

	if si.Width != 80 || si.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 80x80", si.Width, si.Height)
	}
	if si.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", si.MimeType)
	}

	img := decodeSheetImage(t, si)
	if r, _, _, _ := img.At(15, 15).RGBA(); r>>8 != 255 {
		t.Errorf("ink pixel: got %d, want 255", r>>8)
	}
	if r, _, _, _ := img.At(60, 60).RGBA(); r>>8 != 0 {
		t.Errorf("paper pixel: got %d, want 0", r>>8)
	}
}

func TestAnnotate_BorderColorsFollowVerdicts(t *testing.T) {
	spec := omr.GridSpec{QuestionColumns: 1, QuestionRows: 2, OptionsPerQuestion: 4}
	src := image.NewRGBA(image.Rect(0, 0, 80, 80))
	cells := omr.MapGrid(src.Bounds(), spec)

	eval, err := omr.Evaluate(
		omr.AnswerMap{1: "a", 2: omr.NoAnswer},
		omr.AnswerKey{1: "a", 2: "b"},
	)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	si, err := Annotate(src, cells, eval)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	img := decodeSheetImage(t, si)

	// Question 1 is correct: green border along the cell's bottom edge,
	// away from the number label.
	r, g, b, _ := img.At(40, 39).RGBA()
	if r>>8 != 46 || g>>8 != 125 || b>>8 != 50 {
		t.Errorf("correct border: got (%d,%d,%d), want (46,125,50)", r>>8, g>>8, b>>8)
	}

	// Question 2 was not attempted: amber border.
	r, g, b, _ = img.At(40, 79).RGBA()
	if r>>8 != 249 || g>>8 != 168 || b>>8 != 37 {
		t.Errorf("not-attempted border: got (%d,%d,%d), want (249,168,37)", r>>8, g>>8, b>>8)
	}
}

func TestAnnotate_TinyCells(t *testing.T) {
	spec := omr.DefaultGridSpec()
	src := image.NewRGBA(image.Rect(0, 0, 5, 5))
	cells := omr.MapGrid(src.Bounds(), spec)

	eval, err := omr.Evaluate(omr.AnswerMap{1: omr.NoAnswer}, omr.AnswerKey{1: "a"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	// Zero-area cells and labels larger than their cells must not panic.
	if _, err := Annotate(src, cells, eval); err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
}

func TestHeatMap(t *testing.T) {
	spec := omr.GridSpec{QuestionColumns: 1, QuestionRows: 1, OptionsPerQuestion: 4}
	mask := inkMask(image.Rect(0, 20, 40, 30)) // band b quarter inked
	cells := omr.MapGrid(mask.Bounds(), spec)

	si, err := HeatMap(mask, cells)
	if err != nil {
		t.Fatalf("HeatMap failed: %v", err)
	}

	img := decodeSheetImage(t, si)

	// Sampled on paper in both bands: the partially inked band tints
	// warmer (more red) than the empty one.
	inkedR, _, _, _ := img.At(60, 35).RGBA()
	emptyR, _, _, _ := img.At(60, 70).RGBA()
	if inkedR <= emptyR {
		t.Errorf("inked band should be warmer: inked %d, empty %d", inkedR>>8, emptyR>>8)
	}
}

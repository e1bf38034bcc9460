// Package overlay renders diagnostic views of graded answer sheets.
//
// Nothing here affects grading: every function takes finished pipeline
// output and produces an annotated image for humans chasing down why a
// sheet read the way it did. Images are returned base64-encoded so they
// can travel inside JSON responses.
package overlay

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"omr-grader/internal/omr"
)

// SheetImage is a rendered view encoded as base64 PNG.
type SheetImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Verdict border colors.
var (
	correctColor      = mustHex("#2e7d32")
	incorrectColor    = mustHex("#c62828")
	notAttemptedColor = mustHex("#f9a825")
)

// Heat ramp endpoints for ink scores: no ink is deep blue, a fully
// inked band is amber.
var (
	heatCold = mustHex("#1a237e")
	heatHot  = mustHex("#ff8f00")
)

func mustHex(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(fmt.Sprintf("overlay: bad color constant %q: %v", hex, err))
	}
	return c
}

// RenderMask encodes a binary ink mask as a viewable image. Ink shows
// white, paper black, exactly as extraction saw it.
func RenderMask(mask *image.Gray) (*SheetImage, error) {
	return encode(mask)
}

// Annotate draws each question cell's border over the sheet in its
// verdict color: green for correct, red for incorrect, amber for not
// attempted. Cells also carry their question number in the top-left
// corner when there is room.
func Annotate(img image.Image, cells []omr.QuestionCell, eval *omr.EvaluationResult) (*SheetImage, error) {
	statuses := make(map[int]omr.Status, len(eval.Verdicts))
	for _, v := range eval.Verdicts {
		statuses[v.Question] = v.Status
	}

	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	for _, cell := range cells {
		border := statusColor(statuses[cell.Question])
		drawBorder(result, cell.Bounds, border)
		drawQuestionNumber(result, cell.Bounds.Min.X+2, cell.Bounds.Min.Y+2,
			strconv.Itoa(cell.Question), cell.Bounds)
	}
	return encode(result)
}

// HeatMap shades every option band of the mask by how much ink it holds,
// blending from the cold to the hot end of the ramp as the band fills.
// Faint marks that fell short of the threshold show up as lukewarm bands,
// which is usually the fastest way to spot a too-high threshold.
func HeatMap(mask *image.Gray, cells []omr.QuestionCell) (*SheetImage, error) {
	bounds := mask.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, mask, bounds.Min, draw.Src)

	for _, cell := range cells {
		scores := omr.InkScores(mask, cell)
		for _, band := range cell.Options {
			area := band.Bounds.Dx() * band.Bounds.Dy()
			if area == 0 {
				continue
			}
			fill := heatCold.BlendRgb(heatHot, clamp01(scores[band.Label]/float64(area)))
			tintRegion(result, band.Bounds.Intersect(bounds), fill)
		}
	}
	return encode(result)
}

func statusColor(status omr.Status) color.RGBA {
	var c colorful.Color
	switch status {
	case omr.StatusCorrect:
		c = correctColor
	case omr.StatusIncorrect:
		c = incorrectColor
	default:
		c = notAttemptedColor
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// drawBorder traces a one-pixel rectangle outline.
func drawBorder(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// tintRegion mixes the fill color into a region at roughly one-third
// strength, keeping the underlying mask visible through the tint.
func tintRegion(img *image.RGBA, r image.Rectangle, fill colorful.Color) {
	fr, fg, fb := fill.RGB255()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			base := img.RGBAAt(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: mix(base.R, fr),
				G: mix(base.G, fg),
				B: mix(base.B, fb),
				A: 255,
			})
		}
	}
}

func mix(base, tint uint8) uint8 {
	return uint8((int(base)*2 + int(tint)) / 3)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// drawQuestionNumber renders a number with a tiny 3x5 pixel font,
// clipped to the given bounds. Cells too small for the glyphs simply
// stay unlabeled.
func drawQuestionNumber(img *image.RGBA, x, y int, text string, clip image.Rectangle) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	fg := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	bg := color.RGBA{A: 255}
	charWidth := 4

	// Background pad behind the digits.
	for dy := -1; dy < 6; dy++ {
		for dx := -1; dx < len(text)*charWidth; dx++ {
			px, py := x+dx, y+dy
			if image.Pt(px, py).In(clip) {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if image.Pt(px, py).In(clip) {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}

// encode serializes an image to base64 PNG.
func encode(img image.Image) (*SheetImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	bounds := img.Bounds()
	return &SheetImage{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

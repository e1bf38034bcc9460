package omr

import (
	"fmt"
	"image"
)

// Label identifies one answer option, "a" through "z" depending on the
// configured option count. The zero value NoAnswer means no option was
// marked confidently enough to count.
type Label string

// NoAnswer is the Label of an unanswered question.
const NoAnswer Label = ""

// maxOptions bounds OptionsPerQuestion so option labels stay single
// lowercase letters.
const maxOptions = 26

// GridSpec describes the fixed answer grid printed on a sheet.
//
// The grid divides the image into QuestionColumns x QuestionRows equal
// cells, one question per cell, and each cell into OptionsPerQuestion
// horizontal bands, one option per band. The standard sheet is 5 columns,
// 20 rows, 4 options (100 questions, "a" through "d").
type GridSpec struct {
	// QuestionColumns is the number of question columns, left to right.
	QuestionColumns int `json:"question_columns"`

	// QuestionRows is the number of question rows per column, top to bottom.
	QuestionRows int `json:"question_rows"`

	// OptionsPerQuestion is the number of option bands per cell.
	OptionsPerQuestion int `json:"options_per_question"`
}

// DefaultGridSpec returns the standard 100-question layout.
func DefaultGridSpec() GridSpec {
	return GridSpec{QuestionColumns: 5, QuestionRows: 20, OptionsPerQuestion: 4}
}

// Validate checks that the grid describes at least one question with at
// least two options and no more options than there are letters.
func (s GridSpec) Validate() error {
	if s.QuestionColumns < 1 || s.QuestionRows < 1 {
		return &ConfigurationError{
			Reason: fmt.Sprintf("grid must have at least one column and one row, got %dx%d",
				s.QuestionColumns, s.QuestionRows),
		}
	}
	if s.OptionsPerQuestion < 2 {
		return &ConfigurationError{
			Reason: fmt.Sprintf("grid needs at least two options per question, got %d",
				s.OptionsPerQuestion),
		}
	}
	if s.OptionsPerQuestion > maxOptions {
		return &ConfigurationError{
			Reason: fmt.Sprintf("grid supports at most %d options per question, got %d",
				maxOptions, s.OptionsPerQuestion),
		}
	}
	return nil
}

// QuestionCount returns the total number of questions on the sheet.
func (s GridSpec) QuestionCount() int {
	return s.QuestionColumns * s.QuestionRows
}

// Labels returns the option labels in canonical order, "a" first. The
// canonical order decides ties during mark extraction.
func (s GridSpec) Labels() []Label {
	labels := make([]Label, s.OptionsPerQuestion)
	for i := range labels {
		labels[i] = Label('a' + rune(i))
	}
	return labels
}

// OptionBand is one option's horizontal slice of a question cell.
type OptionBand struct {
	Label  Label
	Bounds image.Rectangle
}

// QuestionCell is one question's region of the sheet together with its
// option bands, ordered top to bottom in canonical label order.
type QuestionCell struct {
	Question int
	Bounds   image.Rectangle
	Options  []OptionBand
}

// MapGrid slices image bounds into question cells.
//
// Cells are computed with integer division: every cell is exactly
// bounds.Dx()/columns wide and bounds.Dy()/rows tall, and every option
// band is cellHeight/options tall. When the image dimensions do not
// divide evenly, the leftover pixels on the right and bottom edges (and
// at the bottom of each cell) belong to no cell and are ignored by
// extraction.
//
// The returned slice is ordered by ascending question number, which is
// column-major over the sheet: cell (column c, row r) holds question
// c*rows + r + 1.
//
// An image smaller than the grid yields zero-area cells. That is not an
// error; every band then scores zero ink and every question comes back
// unanswered.
func MapGrid(bounds image.Rectangle, spec GridSpec) []QuestionCell {
	cellWidth := bounds.Dx() / spec.QuestionColumns
	cellHeight := bounds.Dy() / spec.QuestionRows
	bandHeight := cellHeight / spec.OptionsPerQuestion
	labels := spec.Labels()

	cells := make([]QuestionCell, 0, spec.QuestionCount())
	for col := 0; col < spec.QuestionColumns; col++ {
		for row := 0; row < spec.QuestionRows; row++ {
			x0 := bounds.Min.X + col*cellWidth
			y0 := bounds.Min.Y + row*cellHeight

			bands := make([]OptionBand, spec.OptionsPerQuestion)
			for i, label := range labels {
				bandTop := y0 + i*bandHeight
				bands[i] = OptionBand{
					Label:  label,
					Bounds: image.Rect(x0, bandTop, x0+cellWidth, bandTop+bandHeight),
				}
			}

			cells = append(cells, QuestionCell{
				Question: col*spec.QuestionRows + row + 1,
				Bounds:   image.Rect(x0, y0, x0+cellWidth, y0+cellHeight),
				Options:  bands,
			})
		}
	}
	return cells
}

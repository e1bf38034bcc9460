// Package omr implements optical mark recognition for multiple-choice
// answer sheets.
//
// The package turns a scanned sheet image into a graded result in four
// fixed stages: binarization (grayscale, Gaussian smoothing, inverted Otsu
// threshold), grid mapping (a configured column-major grid of question
// cells and option bands), mark extraction (per-band ink scoring and a
// deterministic decision rule), and scoring against an answer key. The
// Processor type wires the stages together; each stage is also exported on
// its own so callers can run or test them independently.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward. Regions follow the
// image.Rectangle convention: Min is inclusive, Max is exclusive.
//
// # Binary Masks
//
// A binarized sheet is represented as *image.Gray where every sample is
// either 255 (foreground, ink) or 0 (background, paper). Note the
// inversion: ink is white in the mask even though it is dark on the sheet.
//
// # Grid Assumptions
//
// Sheets are assumed to be pre-cropped to the bubble area and upright.
// The grid is positional: cell boundaries come from dividing the image
// bounds by the configured column and row counts, not from detecting
// printed lines. Skewed or misaligned scans degrade accuracy; alignment
// correction is out of scope for this package.
//
// # Question Numbering
//
// Questions are numbered column-major starting at 1: the left column holds
// questions 1..rows top to bottom, the next column rows+1..2*rows, and so
// on. Option bands within a cell are lettered "a", "b", "c", ... top to
// bottom.
//
// # Determinism
//
// Every stage is a pure function of its inputs. Processing the same image
// with the same configuration always produces identical results, including
// the order of verdicts and the resolution of tied ink scores.
//
// # Thread Safety
//
// Processor is immutable after construction and safe for concurrent use.
// The free functions are stateless.
//
// # Error Handling
//
// Unreadable or undecodable images are reported as *InputError. Grid and
// answer-key problems detected during validation are reported as
// *ConfigurationError carrying the affected question numbers. Blank or
// ambiguous marks are never errors; they surface as unanswered questions
// in the result.
package omr

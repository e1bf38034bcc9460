package omr

import "image"

// DefaultMarkThreshold is the ink score a band must exceed before it
// counts as a deliberate mark. Scores at or below it are treated as noise
// and the question as unanswered.
const DefaultMarkThreshold = 50.0

// IntensityMap holds the ink score of every option band of one question.
// On a well-formed binary mask the score equals the number of foreground
// pixels in the band.
type IntensityMap map[Label]float64

// AnswerMap holds the extracted answer of every question on a sheet,
// keyed by question number. Unanswered questions are present with
// NoAnswer, never absent.
type AnswerMap map[int]Label

// InkScores measures the ink in each option band of a cell.
//
// The score of a band is the sum of its mask samples divided by 255, so
// with samples constrained to {0, 255} it counts foreground pixels. Bands
// lying partly outside the mask only accumulate over the overlapping
// region; a band fully outside scores zero.
func InkScores(mask *image.Gray, cell QuestionCell) IntensityMap {
	scores := make(IntensityMap, len(cell.Options))
	for _, band := range cell.Options {
		region := band.Bounds.Intersect(mask.Bounds())

		var sum float64
		for y := region.Min.Y; y < region.Max.Y; y++ {
			for x := region.Min.X; x < region.Max.X; x++ {
				sum += float64(mask.GrayAt(x, y).Y)
			}
		}
		scores[band.Label] = sum / 255.0
	}
	return scores
}

// ChooseAnswer decides which option, if any, a question's ink scores
// select. It is a pure function: the same scores, label order, and
// threshold always produce the same label.
//
// The option with the highest score wins, but only when that score
// strictly exceeds the threshold; otherwise the question is unanswered.
// Ties resolve to the earliest label in the given order, so a sheet with
// two equally filled bubbles grades deterministically. Labels missing
// from the score map are skipped; an empty order yields NoAnswer.
func ChooseAnswer(scores IntensityMap, order []Label, threshold float64) Label {
	best := NoAnswer
	bestScore := 0.0
	for _, label := range order {
		score, ok := scores[label]
		if !ok {
			continue
		}
		if best == NoAnswer || score > bestScore {
			best = label
			bestScore = score
		}
	}
	if best == NoAnswer || bestScore <= threshold {
		return NoAnswer
	}
	return best
}

// ExtractAnswers reads every question on a binarized sheet.
//
// The returned map has an entry for every cell, with NoAnswer for
// questions whose strongest band does not clear the threshold.
func ExtractAnswers(mask *image.Gray, cells []QuestionCell, threshold float64) AnswerMap {
	answers := make(AnswerMap, len(cells))
	for _, cell := range cells {
		order := make([]Label, len(cell.Options))
		for i, band := range cell.Options {
			order[i] = band.Label
		}
		answers[cell.Question] = ChooseAnswer(InkScores(mask, cell), order, threshold)
	}
	return answers
}
